package check

import (
	"context"
	"fmt"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// RowFunc is a caller-supplied predicate over one row. Returning an error
// marks the row as failed with that error recorded; accessor misses (nulls,
// absent columns) should be treated as false by the predicate, and the
// Compare convenience does exactly that.
type RowFunc func(r dv.Row) (bool, error)

// Rows evaluates a boolean expression per row. A false result, a predicate
// error, or a panic all produce one violation for that row.
type Rows struct {
	Rule string
	Cols []string
	Fn   RowFunc
}

// OverRows builds a row-predicate rule. cols must list every column the
// predicate reads so the schema precheck can cover it.
func OverRows(rule string, fn RowFunc, cols ...string) *Rows {
	return &Rows{Rule: rule, Cols: cols, Fn: fn}
}

func (r *Rows) Name() string      { return r.Rule }
func (r *Rows) Columns() []string { return r.Cols }

func (r *Rows) Evaluate(ctx context.Context, f *dv.Frame) []dv.Violation {
	var out []dv.Violation
	for i := 0; i < f.Rows(); i++ {
		ok, err := safeRow(r.Fn, f.Row(i))
		if err != nil {
			out = append(out, dv.Violation{Rule: r.Rule, Row: i, Message: "predicate error: " + err.Error()})
			continue
		}
		if !ok {
			out = append(out, dv.Violation{Rule: r.Rule, Row: i, Message: "row predicate false"})
		}
	}
	return out
}

func safeRow(fn RowFunc, row dv.Row) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(row)
}

// Compare builds a row rule comparing two numeric columns. A missing value on
// either side fails the row. Supported ops: < <= > >= == !=.
func Compare(left, op, right string) *Rows {
	return &Rows{
		Rule: "compare",
		Cols: []string{left, right},
		Fn: func(r dv.Row) (bool, error) {
			lv, lok := r.Float(left)
			rv, rok := r.Float(right)
			if !lok || !rok {
				return false, nil
			}
			switch op {
			case "<":
				return lv < rv, nil
			case "<=":
				return lv <= rv, nil
			case ">":
				return lv > rv, nil
			case ">=":
				return lv >= rv, nil
			case "==":
				return lv == rv, nil
			case "!=":
				return lv != rv, nil
			default:
				return false, fmt.Errorf("unsupported op %q", op)
			}
		},
	}
}
