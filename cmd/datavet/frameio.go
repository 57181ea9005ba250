package main

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	"github.com/wdm0006/datavet/pkg/io/csvio"
	"github.com/wdm0006/datavet/pkg/io/jsonlio"
	"github.com/wdm0006/datavet/pkg/io/parquetio"
)

// formatOf maps a path to a frame codec, looking through a .gz suffix.
func formatOf(path string) string {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(p) {
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".parquet":
		return "parquet"
	default:
		return "csv"
	}
}

// delimiterRune parses the --delimiter flag: exactly one rune, which may be
// multi-byte.
func delimiterRune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, errors.Newf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

func loadFrame(path string, hasHeader bool, delimiter string) (*dv.Frame, string, error) {
	switch formatOf(path) {
	case "jsonl":
		r, err := jsonlio.Open(path, jsonlio.ReaderOptions{})
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = r.Close() }()
		schema, err := r.InferSchema()
		if err != nil {
			return nil, "", err
		}
		f, err := r.ReadAll(schema)
		return f, "", err
	case "parquet":
		r, err := parquetio.OpenReader(path, 100)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = r.Close() }()
		f, err := r.ReadAll()
		return f, "", err
	default:
		opt := csvio.ReaderOptions{HasHeader: hasHeader, SampleRows: 100}
		if delimiter != "" {
			d, err := delimiterRune(delimiter)
			if err != nil {
				return nil, "", err
			}
			opt.Delimiter = d
		}
		r, err := csvio.Open(path, opt)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = r.Close() }()
		schema, _, err := r.InferSchema()
		if err != nil {
			return nil, "", err
		}
		f, err := r.ReadAll(schema)
		return f, r.Warnings(), err
	}
}

func writeFrame(path string, f *dv.Frame, delimiter string) error {
	switch formatOf(path) {
	case "jsonl":
		return jsonlio.WriteAll(path, f)
	case "parquet":
		return parquetio.WriteAll(path, f)
	default:
		opt := csvio.WriterOptions{}
		if delimiter != "" {
			d, err := delimiterRune(delimiter)
			if err != nil {
				return err
			}
			opt.Delimiter = d
		}
		return errors.Wrapf(csvio.WriteAll(path, f, opt), "write %s", path)
	}
}
