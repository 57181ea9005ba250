package check

import (
	"context"
	"fmt"
	"strings"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// Reduced maps each row to a derived scalar and bound-checks it inclusively,
// like WithinBounds applied to a synthetic column. Violations carry the
// original row index and the derived value.
type Reduced struct {
	Rule string
	Cols []string
	Fn   func(r dv.Row) float64
	Min  float64
	Max  float64
}

// Reduce builds a row-reduction rule over the given columns.
func Reduce(rule string, fn func(dv.Row) float64, lo, hi float64, cols ...string) *Reduced {
	return &Reduced{Rule: rule, Cols: cols, Fn: fn, Min: lo, Max: hi}
}

func (t *Reduced) Name() string      { return t.Rule }
func (t *Reduced) Columns() []string { return t.Cols }

func (t *Reduced) Evaluate(ctx context.Context, f *dv.Frame) []dv.Violation {
	var out []dv.Violation
	label := strings.Join(t.Cols, ",")
	for i := 0; i < f.Rows(); i++ {
		x, err := safeReduce(t.Fn, f.Row(i))
		if err != nil {
			out = append(out, dv.Violation{Rule: t.Rule, Column: label, Row: i, Message: "reduction error: " + err.Error()})
			continue
		}
		if x < t.Min || x > t.Max {
			out = append(out, dv.Violation{
				Rule:    t.Rule,
				Column:  label,
				Row:     i,
				Value:   x,
				Message: fmt.Sprintf("derived value outside [%g, %g]", t.Min, t.Max),
			})
		}
	}
	return out
}

func safeReduce(fn func(dv.Row) float64, row dv.Row) (x float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(row), nil
}

// MaxMissing flags rows with more than max missing values among cols.
func MaxMissing(max int, cols ...string) *Reduced {
	return &Reduced{
		Rule: "max_missing",
		Cols: cols,
		Fn: func(r dv.Row) float64 {
			n := 0
			for _, c := range cols {
				if r.IsNull(c) {
					n++
				}
			}
			return float64(n)
		},
		Min: 0,
		Max: float64(max),
	}
}
