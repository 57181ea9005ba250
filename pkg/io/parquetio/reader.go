package parquetio

import (
	"os"
	"sort"
	"strconv"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[map[string]any]
	schema dv.Schema
}

// OpenReader opens a Parquet file, samples rows to infer a frame schema, and
// rewinds for the full read. segmentio readers can't unread, so the reader is
// recreated after sampling.
func OpenReader(path string, sampleRows int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := parquet.NewGenericReader[map[string]any](f)
	if sampleRows <= 0 {
		sampleRows = 100
	}
	rows := make([]map[string]any, sampleRows)
	n, err := r.Read(rows)
	if err != nil && !isEOF(err) {
		_ = r.Close()
		_ = f.Close()
		return nil, err
	}
	schema := inferSchema(rows[:n])
	if err := r.Close(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{file: f, reader: parquet.NewGenericReader[map[string]any](f), schema: schema}, nil
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

func (r *Reader) Schema() dv.Schema { return r.schema }

func (r *Reader) ReadAll() (*dv.Frame, error) {
	f := dv.NewFrame(r.schema)
	buf := make([]map[string]any, 1024)
	for {
		n, err := r.reader.Read(buf)
		for i := 0; i < n; i++ {
			f.AppendNullRow()
			setRow(f, f.Rows()-1, buf[i])
		}
		if err != nil {
			if isEOF(err) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

func isEOF(err error) bool { return strings.Contains(err.Error(), "EOF") }

func inferSchema(rows []map[string]any) dv.Schema {
	keysSet := map[string]struct{}{}
	for _, m := range rows {
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keysSet))
	for k := range keysSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	schema := dv.Schema{Columns: make([]dv.ColumnSchema, len(keys))}
	for i, k := range keys {
		nNum, nInt, nBool, nStr := 0, 0, 0, 0
		for _, m := range rows {
			v, ok := m[k]
			if !ok || v == nil {
				continue
			}
			switch t := v.(type) {
			case float64:
				nNum++
				if float64(int64(t)) == t {
					nInt++
				}
			case int, int32, int64:
				nNum++
				nInt++
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					continue
				}
				if x, err := strconv.ParseFloat(s, 64); err == nil {
					nNum++
					if float64(int64(x)) == x {
						nInt++
					}
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		kind := dv.KindString
		switch {
		case nBool > nNum && nBool >= nStr:
			kind = dv.KindBool
		case nNum > nStr:
			if nInt == nNum {
				kind = dv.KindInt
			} else {
				kind = dv.KindFloat
			}
		}
		schema.Columns[i] = dv.ColumnSchema{Name: k, Type: kind, Nullable: true}
	}
	return schema
}

func setRow(f *dv.Frame, row int, m map[string]any) {
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		switch cs.Type {
		case dv.KindFloat:
			switch t := v.(type) {
			case float64:
				_ = f.SetCell(row, cs.Name, t)
			case int32:
				_ = f.SetCell(row, cs.Name, float64(t))
			case int64:
				_ = f.SetCell(row, cs.Name, float64(t))
			}
		case dv.KindInt:
			switch t := v.(type) {
			case int64:
				_ = f.SetCell(row, cs.Name, t)
			case int32:
				_ = f.SetCell(row, cs.Name, int64(t))
			case float64:
				_ = f.SetCell(row, cs.Name, int64(t))
			}
		case dv.KindBool:
			if t, ok := v.(bool); ok {
				_ = f.SetCell(row, cs.Name, t)
			}
		default:
			if t, ok := v.(string); ok {
				_ = f.SetCell(row, cs.Name, t)
			}
		}
	}
}
