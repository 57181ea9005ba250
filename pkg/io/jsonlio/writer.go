package jsonlio

import (
	"encoding/json"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	iox "github.com/wdm0006/datavet/pkg/io/ioutils"
)

// WriteAll writes a Frame as one JSON object per line. Null cells are
// omitted from the object.
func WriteAll(path string, f *dv.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	enc := json.NewEncoder(out)
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, f.Cols())
		for _, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			if v, ok := col.Value(r); ok {
				m[cs.Name] = v
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
