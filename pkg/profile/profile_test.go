package profile

import (
	"testing"

	"github.com/stretchr/testify/require"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

func TestSummarize(t *testing.T) {
	s := dv.Schema{Columns: []dv.ColumnSchema{
		{Name: "dmc", Type: dv.KindFloat, Nullable: true},
		{Name: "cat", Type: dv.KindString, Nullable: true},
	}}
	f := dv.NewFrame(s)
	dmc := []any{1.0, 2.0, 3.0, 4.0, nil}
	cat := []any{"a", "a", "b", nil, "a"}
	for i := range dmc {
		f.AppendNullRow()
		if dmc[i] != nil {
			require.NoError(t, f.SetCell(i, "dmc", dmc[i]))
		}
		if cat[i] != nil {
			require.NoError(t, f.SetCell(i, "cat", cat[i]))
		}
	}

	sums := Summarize(f, 2)
	require.Len(t, sums, 2)

	num := sums[0]
	require.Equal(t, 4, num.Count)
	require.Equal(t, 1, num.Nulls)
	require.NotNil(t, num.Num)
	require.Equal(t, 1.0, num.Num.Min)
	require.Equal(t, 4.0, num.Num.Max)
	require.Equal(t, 2.5, num.Num.Mean)
	require.Equal(t, 2.5, num.Num.Median)
	require.Equal(t, 1.0, num.Num.MAD) // devs from 2.5: 1.5,0.5,0.5,1.5

	str := sums[1]
	require.NotNil(t, str.Str)
	require.Equal(t, 2, str.Str.Distinct)
	require.Equal(t, "a", str.Str.Top[0].Value)
	require.Equal(t, 3, str.Str.Top[0].Count)

	out := Text(sums)
	require.Contains(t, out, "dmc (float)")
	require.Contains(t, out, "distinct=2")
}

func TestSummarizeConstantColumnZeroSpread(t *testing.T) {
	f := dv.NewFrame(dv.Schema{Columns: []dv.ColumnSchema{{Name: "v", Type: dv.KindFloat, Nullable: true}}})
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "v", 7.0))
	}
	sums := Summarize(f, 0)
	require.Equal(t, 0.0, sums[0].Num.StdDev)
	require.Equal(t, 0.0, sums[0].Num.MAD)
}
