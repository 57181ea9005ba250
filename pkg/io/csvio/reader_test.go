package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

const specimensCSV = `plot_id,height_category,dry_matter_content_mg_per_g
p-001,<20cm,150
p-002,50cm,-5
p-003,>40cm,999
p-004,20-40cm,
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestInferAndRead(t *testing.T) {
	p := writeTemp(t, "specimens.csv", specimensCSV)
	r, err := Open(p, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	schema, names, err := r.InferSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"plot_id", "height_category", "dry_matter_content_mg_per_g"}, names)
	require.Equal(t, dv.KindString, schema.Columns[0].Type)
	require.Equal(t, dv.KindString, schema.Columns[1].Type)
	require.Equal(t, dv.KindInt, schema.Columns[2].Type)

	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 4, f.Rows())

	col, ok := f.ColumnByName("dry_matter_content_mg_per_g")
	require.True(t, ok)
	v, ok := dv.Number(col, 1)
	require.True(t, ok)
	require.Equal(t, -5.0, v)
	require.True(t, col.IsNull(3), "empty field reads as null")
}

func TestDelimiterSniffing(t *testing.T) {
	p := writeTemp(t, "semi.csv", "a;b\n1;2\n3;4\n")
	r, err := Open(p, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	schema, names, err := r.InferSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 2, f.Rows())
}

func TestStrictShortRecord(t *testing.T) {
	p := writeTemp(t, "short.csv", "a,b\n1,2\n3\n")
	r, err := Open(p, ReaderOptions{HasHeader: true, Strict: true})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	_, err = r.ReadAll(schema)
	require.Error(t, err)
}

func TestWarningsOnLenientRead(t *testing.T) {
	p := writeTemp(t, "short.csv", "a,b\n1,2\n3\n")
	r, err := Open(p, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 2, f.Rows())
	require.Contains(t, r.Warnings(), "short_records=1")
}

func TestWriteAllRoundTrip(t *testing.T) {
	p := writeTemp(t, "in.csv", specimensCSV)
	r, err := Open(p, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteAll(out, f, WriterOptions{}))

	r2, err := Open(out, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = r2.Close() }()
	schema2, names, err := r2.InferSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"plot_id", "height_category", "dry_matter_content_mg_per_g"}, names)
	f2, err := r2.ReadAll(schema2)
	require.NoError(t, err)
	require.Equal(t, f.Rows(), f2.Rows())
}
