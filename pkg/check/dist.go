package check

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// Spread selects how the distributional bound measures center and spread.
type Spread int

const (
	// MeanStdDev uses the mean and sample standard deviation.
	MeanStdDev Spread = iota
	// MedianMAD uses the median and median absolute deviation, which is
	// robust to the very outliers being hunted.
	MedianMAD
)

// Dist flags values whose distance from the column's center exceeds
// Multiplier times its spread. Center and spread are computed once, up front,
// over the entire column including the points under test. A constant column
// has zero spread and flags nothing.
type Dist struct {
	Rule       string
	Col        string
	Method     Spread
	Multiplier float64
}

// Outliers builds a distributional-bound rule on a numeric column.
func Outliers(col string, method Spread, multiplier float64) *Dist {
	name := "outliers_stddev"
	if method == MedianMAD {
		name = "outliers_mad"
	}
	return &Dist{Rule: name, Col: col, Method: method, Multiplier: multiplier}
}

func (t *Dist) Name() string      { return t.Rule }
func (t *Dist) Columns() []string { return []string{t.Col} }

func (t *Dist) Evaluate(ctx context.Context, f *dv.Frame) []dv.Violation {
	col, ok := f.ColumnByName(t.Col)
	if !ok {
		return []dv.Violation{{Rule: t.Rule, Column: t.Col, Row: -1, Message: "unknown column"}}
	}
	if !col.Kind().Numeric() {
		return []dv.Violation{{Rule: t.Rule, Column: t.Col, Row: -1, Message: "column is not numeric"}}
	}

	vals := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v, ok := dv.Number(col, i); ok {
			vals = append(vals, v)
		}
	}

	var center, spread float64
	if len(vals) > 0 {
		switch t.Method {
		case MedianMAD:
			center = median(vals)
			devs := make([]float64, len(vals))
			for i, v := range vals {
				devs[i] = math.Abs(v - center)
			}
			spread = median(devs)
		default:
			center = stat.Mean(vals, nil)
			spread = stat.StdDev(vals, nil)
		}
	}

	var out []dv.Violation
	for i := 0; i < col.Len(); i++ {
		v, ok := dv.Number(col, i)
		if !ok {
			out = append(out, dv.Violation{Rule: t.Rule, Column: t.Col, Row: i, Message: "missing value"})
			continue
		}
		if spread == 0 || math.IsNaN(spread) {
			continue
		}
		if math.Abs(v-center) > t.Multiplier*spread {
			out = append(out, dv.Violation{
				Rule:    t.Rule,
				Column:  t.Col,
				Row:     i,
				Value:   v,
				Message: fmt.Sprintf("more than %g spreads from center %g", t.Multiplier, center),
			})
		}
	}
	return out
}

// median sorts a copy and averages the two middle elements on even lengths.
func median(xs []float64) float64 {
	vals := make([]float64, len(xs))
	copy(vals, xs)
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}
