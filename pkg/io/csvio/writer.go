package csvio

import (
	"encoding/csv"
	"strconv"
	"time"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	iox "github.com/wdm0006/datavet/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with a header row. Null cells are
// written as empty fields.
func WriteAll(path string, f *dv.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	hdr := make([]string, len(f.Schema().Columns))
	for i, cs := range f.Schema().Columns {
		hdr[i] = cs.Name
	}
	if err := w.Write(hdr); err != nil {
		return err
	}

	for r := 0; r < f.Rows(); r++ {
		row := make([]string, len(hdr))
		for c, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			v, ok := col.Value(r)
			if !ok {
				continue
			}
			switch t := v.(type) {
			case float64:
				row[c] = strconv.FormatFloat(t, 'g', -1, 64)
			case int64:
				row[c] = strconv.FormatInt(t, 10)
			case bool:
				row[c] = strconv.FormatBool(t)
			case string:
				row[c] = t
			case time.Time:
				row[c] = t.Format(time.RFC3339)
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
