// Package profile summarizes frame columns. The numbers it reports (min/max,
// mean/stddev, median/MAD) are the same statistics the bound and outlier
// rules consume, so a profile run is the usual starting point for writing a
// check config.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

type NumSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median float64 `json:"median"`
	MAD    float64 `json:"mad"`
}

type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type StrSummary struct {
	Distinct int    `json:"distinct"`
	Top      []Freq `json:"top,omitempty"`
}

type ColumnSummary struct {
	Name  string      `json:"name"`
	Kind  string      `json:"kind"`
	Count int         `json:"count"`
	Nulls int         `json:"nulls"`
	Num   *NumSummary `json:"num,omitempty"`
	Str   *StrSummary `json:"str,omitempty"`
}

// Summarize profiles every column of f. topK bounds how many of the most
// frequent values are kept for non-numeric columns; 0 keeps none.
func Summarize(f *dv.Frame, topK int) []ColumnSummary {
	out := make([]ColumnSummary, 0, f.Cols())
	for _, cs := range f.Schema().Columns {
		col, _ := f.ColumnByName(cs.Name)
		sum := ColumnSummary{Name: cs.Name, Kind: cs.Type.String()}
		if cs.Type.Numeric() {
			sum.Num = numSummary(col, &sum)
		} else {
			sum.Str = strSummary(col, &sum, topK)
		}
		out = append(out, sum)
	}
	return out
}

func numSummary(col dv.Column, sum *ColumnSummary) *NumSummary {
	vals := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		v, ok := dv.Number(col, i)
		if !ok {
			sum.Nulls++
			continue
		}
		sum.Count++
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return &NumSummary{}
	}
	ns := &NumSummary{
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
		Mean:   stat.Mean(vals, nil),
		StdDev: stat.StdDev(vals, nil),
	}
	if math.IsNaN(ns.StdDev) {
		ns.StdDev = 0
	}
	for _, v := range vals {
		if v < ns.Min {
			ns.Min = v
		}
		if v > ns.Max {
			ns.Max = v
		}
	}
	ns.Median = median(vals)
	devs := make([]float64, len(vals))
	for i, v := range vals {
		devs[i] = math.Abs(v - ns.Median)
	}
	ns.MAD = median(devs)
	return ns
}

func strSummary(col dv.Column, sum *ColumnSummary, topK int) *StrSummary {
	freqs := map[string]int{}
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Value(i)
		if !ok {
			sum.Nulls++
			continue
		}
		sum.Count++
		freqs[fmt.Sprint(v)]++
	}
	ss := &StrSummary{Distinct: len(freqs)}
	if topK <= 0 {
		return ss
	}
	arr := make([]Freq, 0, len(freqs))
	for k, n := range freqs {
		arr = append(arr, Freq{Value: k, Count: n})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if len(arr) > topK {
		arr = arr[:topK]
	}
	ss.Top = arr
	return ss
}

// Text renders summaries as a plain multi-line report.
func Text(sums []ColumnSummary) string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, s := range sums {
		fmt.Fprintf(&b, "- %s (%s): count=%d nulls=%d", s.Name, s.Kind, s.Count, s.Nulls)
		if s.Num != nil {
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g stddev=%.6g median=%.6g mad=%.6g",
				s.Num.Min, s.Num.Max, s.Num.Mean, s.Num.StdDev, s.Num.Median, s.Num.MAD)
		}
		if s.Str != nil {
			fmt.Fprintf(&b, " distinct=%d", s.Str.Distinct)
		}
		b.WriteByte('\n')
		if s.Str != nil {
			for _, fr := range s.Str.Top {
				fmt.Fprintf(&b, "    %q: %d\n", fr.Value, fr.Count)
			}
		}
	}
	return b.String()
}

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
