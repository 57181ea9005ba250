package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/wdm0006/datavet/pkg/check"
	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// genFrame builds a synthetic frame with a controlled rate of missing cells
// and out-of-range values, so both modes have real work to do.
func genFrame(rows, fcols, scols int, missp, badp float64, rnd *rand.Rand) *dv.Frame {
	var cols []dv.ColumnSchema
	for i := 0; i < fcols; i++ {
		cols = append(cols, dv.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: dv.KindFloat, Nullable: true})
	}
	for i := 0; i < scols; i++ {
		cols = append(cols, dv.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: dv.KindString, Nullable: true})
	}
	f := dv.NewFrame(dv.Schema{Columns: cols})
	cats := []string{"alpha", "beta", "gamma"}
	for r := 0; r < rows; r++ {
		f.AppendNullRow()
		for _, cs := range cols {
			if rnd.Float64() < missp {
				continue
			}
			switch cs.Type {
			case dv.KindFloat:
				v := rnd.Float64() * 100
				if rnd.Float64() < badp {
					v += 10_000
				}
				_ = f.SetCell(r, cs.Name, v)
			default:
				_ = f.SetCell(r, cs.Name, cats[rnd.Intn(len(cats))])
			}
		}
	}
	return f
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "rows to generate")
		fcols   = flag.Int("float-cols", 4, "number of float columns")
		scols   = flag.Int("string-cols", 2, "number of string columns")
		missp   = flag.Float64("missing", 0.0, "probability of missing values in each cell")
		badp    = flag.Float64("bad", 0.0, "probability of out-of-range float values")
		collect = flag.Bool("collect", true, "use collect-all mode")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seed))
	f := genFrame(*rows, *fcols, *scols, *missp, *badp, rnd)

	rules := []dv.Rule{
		check.WithinBounds(0, 1000, "f0"),
		check.InSet("s0", "alpha", "beta", "gamma"),
		check.Outliers("f1", check.MedianMAD, 6),
		check.MaxMissing(*fcols, "f0", "f1"),
	}
	mode := dv.FailFast
	if *collect {
		mode = dv.CollectAll
	}

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()

	violations := 0
	_, err := dv.Run(context.Background(), f, rules, mode)
	if err != nil {
		var rep *dv.Report
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		violations = len(rep.Violations)
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	summary := map[string]any{
		"rows":                  *rows,
		"mode":                  mode.String(),
		"violations":            violations,
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          float64(*rows) / elapsed.Seconds(),
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
	}
	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", *rows)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("Violations: %d\n", violations)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", float64(*rows)/elapsed.Seconds())
}
