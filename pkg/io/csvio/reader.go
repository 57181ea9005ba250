package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	iox "github.com/wdm0006/datavet/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
}

type Reader struct {
	r      *csv.Reader
	closer io.Closer
	opt    ReaderOptions
	buf    [][]string
	// mismatch counters surfaced via Warnings
	shortRecords int
	longRecords  int
}

var numRe = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// Open opens a CSV file (gzip-transparent, "-" for stdin) and returns a
// Reader. Close releases the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	rr := csv.NewReader(rc)
	// stdin can't be reopened for sniffing
	if opt.Delimiter == 0 && path != "-" {
		if d, lazy, err := sniffDelimiter(path); err == nil && d != 0 {
			rr.Comma = d
			rr.LazyQuotes = lazy
		}
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, closer: rc, opt: opt}, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader.
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// InferSchema reads the header (if present) and samples rows to determine
// column kinds. Sampled rows are retained for the subsequent ReadAll.
func (r *Reader) InferSchema() (dv.Schema, []string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return dv.Schema{}, nil, err
	}
	var names []string
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.ToValidUTF8(rec[i], "?")
		}
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err != nil {
			return dv.Schema{}, nil, err
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{rec}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(sample) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dv.Schema{}, nil, err
		}
		sample = append(sample, rr)
	}
	r.buf = append(r.buf, sample...)

	kinds := inferKinds(sample)
	schema := dv.Schema{Columns: make([]dv.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = dv.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	return schema, names, nil
}

// ReadAll loads the remaining records into a Frame.
func (r *Reader) ReadAll(schema dv.Schema) (*dv.Frame, error) {
	f := dv.NewFrame(schema)
	for _, rec := range r.buf {
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	r.buf = nil
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *dv.Frame, schema dv.Schema, rec []string) error {
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record: need %d fields, got %d", len(schema.Columns), len(rec))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return fmt.Errorf("csv short record: need %d fields, got %d", len(schema.Columns), len(rec))
			}
			continue
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if val == "" {
			continue
		}
		switch cs.Type {
		case dv.KindFloat:
			if x, err := strconv.ParseFloat(val, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		case dv.KindInt:
			if x, err := strconv.ParseInt(val, 10, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		case dv.KindBool:
			if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		default:
			_ = f.SetCell(row, cs.Name, val)
		}
	}
	return nil
}

func inferKinds(rows [][]string) []dv.Kind {
	if len(rows) == 0 {
		return nil
	}
	ncol := len(rows[0])
	kinds := make([]dv.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			if numRe.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
			} else if lv := strings.ToLower(v); lv != "true" && lv != "false" {
				str++
			}
		}
		// prefer float over int to be permissive
		if num > str {
			if integer == num {
				kinds[c] = dv.KindInt
			} else {
				kinds[c] = dv.KindFloat
			}
		} else {
			kinds[c] = dv.KindString
		}
	}
	return kinds
}

func sniffDelimiter(path string) (rune, bool, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = rc.Close() }()
	sample := make([]byte, 4096)
	n, _ := rc.Read(sample)
	sample = sample[:n]
	if len(sample) == 0 {
		return ',', false, nil
	}
	best, bestCount := byte(','), -1
	for _, c := range []byte{',', '\t', ';', '|'} {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount, best = cnt, c
		}
	}
	quotes := 0
	for _, b := range sample {
		if b == '"' {
			quotes++
		}
	}
	return rune(best), quotes%2 != 0, nil
}

// Warnings summarizes record-shape mismatches encountered while reading.
func (r *Reader) Warnings() string {
	var parts []string
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
