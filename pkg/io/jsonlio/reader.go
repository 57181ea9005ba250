package jsonlio

import (
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	iox "github.com/wdm0006/datavet/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int
}

type Reader struct {
	dec    *json.Decoder
	closer io.Closer
	opt    ReaderOptions
	buf    []map[string]any
	keys   []string
}

var numRe = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// Open opens a JSONL file (gzip-transparent, "-" for stdin).
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: json.NewDecoder(rc), closer: rc, opt: opt}, nil
}

func (r *Reader) Close() error { return r.closer.Close() }

// InferSchema samples objects to collect keys and determine column kinds.
// Keys are sorted so the schema is deterministic regardless of object order.
func (r *Reader) InferSchema() (dv.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	keysSet := map[string]struct{}{}
	for len(r.buf) < max {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return dv.Schema{}, err
		}
		r.buf = append(r.buf, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.keys = make([]string, 0, len(keysSet))
	for k := range keysSet {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)

	kinds := inferKinds(r.buf, r.keys)
	schema := dv.Schema{Columns: make([]dv.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = dv.ColumnSchema{Name: k, Type: kinds[i], Nullable: true}
	}
	return schema, nil
}

// ReadAll loads all objects into a Frame.
func (r *Reader) ReadAll(schema dv.Schema) (*dv.Frame, error) {
	f := dv.NewFrame(schema)
	for _, m := range r.buf {
		appendObject(f, m)
	}
	r.buf = nil
	for {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		appendObject(f, m)
	}
	return f, nil
}

func appendObject(f *dv.Frame, m map[string]any) {
	f.AppendNullRow()
	row := f.Rows() - 1
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
			case string:
				if x, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		case dv.KindInt:
			switch t := v.(type) {
			case float64:
				_ = f.SetCell(row, cs.Name, int64(t))
			case string:
				if x, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		case dv.KindBool:
			switch t := v.(type) {
			case bool:
				_ = f.SetCell(row, cs.Name, t)
			case string:
				if x, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t))); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		default:
			if t, ok := v.(string); ok {
				_ = f.SetCell(row, cs.Name, t)
			} else {
				b, _ := json.Marshal(v)
				_ = f.SetCell(row, cs.Name, string(b))
			}
		}
	}
}

func inferKinds(sample []map[string]any, keys []string) []dv.Kind {
	kinds := make([]dv.Kind, len(keys))
	for i, k := range keys {
		nNum, nInt, nBool, nStr := 0, 0, 0, 0
		for _, m := range sample {
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
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					continue
				}
				if numRe.MatchString(s) {
					nNum++
					if !strings.ContainsAny(s, ".eE") {
						nInt++
					}
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case nBool > nNum && nBool >= nStr:
			kinds[i] = dv.KindBool
		case nNum > nStr:
			if nInt == nNum {
				kinds[i] = dv.KindInt
			} else {
				kinds[i] = dv.KindFloat
			}
		default:
			kinds[i] = dv.KindString
		}
	}
	return kinds
}
