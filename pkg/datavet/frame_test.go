package datavet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

func TestFrameSetCellAndNulls(t *testing.T) {
	s := dv.Schema{Columns: []dv.ColumnSchema{
		{Name: "x", Type: dv.KindFloat, Nullable: true},
		{Name: "n", Type: dv.KindInt, Nullable: true},
		{Name: "s", Type: dv.KindString, Nullable: true},
	}}
	f := dv.NewFrame(s)
	for i := 0; i < 2; i++ {
		f.AppendNullRow()
	}
	require.Equal(t, 2, f.Rows())
	require.Equal(t, 3, f.Cols())

	require.NoError(t, f.SetCell(0, "x", 1.5))
	require.NoError(t, f.SetCell(0, "n", 7))
	require.NoError(t, f.SetCell(0, "s", "ok"))
	require.Error(t, f.SetCell(0, "nope", 1.0))
	require.Error(t, f.SetCell(0, "s", 3.14))

	col, ok := f.ColumnByName("x")
	require.True(t, ok)
	v, ok := col.Value(0)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
	_, ok = col.Value(1)
	require.False(t, ok, "row 1 was never set")

	// nil marks a cell null again
	require.NoError(t, f.SetCell(0, "x", nil))
	require.True(t, col.IsNull(0))
}

func TestNumberCoercesIntColumns(t *testing.T) {
	s := dv.Schema{Columns: []dv.ColumnSchema{
		{Name: "n", Type: dv.KindInt, Nullable: true},
		{Name: "s", Type: dv.KindString, Nullable: true},
	}}
	f := dv.NewFrame(s)
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "n", int64(42)))
	require.NoError(t, f.SetCell(0, "s", "42"))

	nc, _ := f.ColumnByName("n")
	v, ok := dv.Number(nc, 0)
	require.True(t, ok)
	require.Equal(t, 42.0, v)

	sc, _ := f.ColumnByName("s")
	_, ok = dv.Number(sc, 0)
	require.False(t, ok, "strings never coerce")
}

func TestRowView(t *testing.T) {
	s := dv.Schema{Columns: []dv.ColumnSchema{
		{Name: "lo", Type: dv.KindFloat, Nullable: true},
		{Name: "hi", Type: dv.KindFloat, Nullable: true},
		{Name: "tag", Type: dv.KindString, Nullable: true},
	}}
	f := dv.NewFrame(s)
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "lo", 1.0))
	require.NoError(t, f.SetCell(0, "tag", "a"))

	r := f.Row(0)
	require.Equal(t, 0, r.Index())

	lo, ok := r.Float("lo")
	require.True(t, ok)
	require.Equal(t, 1.0, lo)

	_, ok = r.Float("hi")
	require.False(t, ok, "null cell")
	require.True(t, r.IsNull("hi"))
	require.True(t, r.IsNull("missing_column"))

	tag, ok := r.String("tag")
	require.True(t, ok)
	require.Equal(t, "a", tag)

	_, ok = r.String("lo")
	require.False(t, ok, "kind mismatch")
}
