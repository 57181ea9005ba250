// Package check provides the built-in rule kinds for datavet pipelines:
// element-wise column checks, row predicates, row reductions with a bound,
// and distributional outlier bounds.
package check

import (
	"context"
	"fmt"
	"regexp"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// Column applies a value predicate element-wise to one or more named columns.
// Any cell the predicate rejects yields one violation carrying the column
// name, row index, and value. Missing values always fail: validation never
// lets a null slide through a check silently.
type Column struct {
	Rule string
	Cols []string
	Fn   func(v any) bool
	Desc string // message attached to violations
}

// New builds a column check from a caller-supplied predicate. The named
// constructors below are conveniences over this same capability.
func New(rule string, fn func(v any) bool, cols ...string) *Column {
	return &Column{Rule: rule, Cols: cols, Fn: fn, Desc: "predicate rejected value"}
}

func (c *Column) Name() string      { return c.Rule }
func (c *Column) Columns() []string { return c.Cols }

func (c *Column) Evaluate(ctx context.Context, f *dv.Frame) []dv.Violation {
	var out []dv.Violation
	for _, name := range c.Cols {
		col, ok := f.ColumnByName(name)
		if !ok {
			out = append(out, dv.Violation{Rule: c.Rule, Column: name, Row: -1, Message: "unknown column"})
			continue
		}
		for i := 0; i < col.Len(); i++ {
			v, ok := col.Value(i)
			if !ok {
				out = append(out, dv.Violation{Rule: c.Rule, Column: name, Row: i, Message: "missing value"})
				continue
			}
			if !safePred(c.Fn, v) {
				out = append(out, dv.Violation{Rule: c.Rule, Column: name, Row: i, Value: v, Message: c.Desc})
			}
		}
	}
	return out
}

// safePred treats a panicking predicate as a rejection rather than letting it
// take down the run.
func safePred(fn func(any) bool, v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn(v)
}

// InSet checks string membership in a closed set, case-sensitive.
// Non-string cells are rejected.
func InSet(col string, allowed ...string) *Column {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return &Column{
		Rule: "in_set",
		Cols: []string{col},
		Fn: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			_, ok = set[s]
			return ok
		},
		Desc: "value not in allowed set",
	}
}

// WithinBounds checks a closed numeric interval; both endpoints pass.
func WithinBounds(lo, hi float64, cols ...string) *Column {
	return &Column{
		Rule: "within_bounds",
		Cols: cols,
		Fn: func(v any) bool {
			x, ok := asFloat(v)
			return ok && x >= lo && x <= hi
		},
		Desc: fmt.Sprintf("value outside [%g, %g]", lo, hi),
	}
}

// Matches checks string cells against a compiled regular expression.
func Matches(re *regexp.Regexp, cols ...string) *Column {
	return &Column{
		Rule: "matches",
		Cols: cols,
		Fn: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
		Desc: fmt.Sprintf("value does not match %s", re.String()),
	}
}

// NotNull fails only on missing values; every present value passes.
func NotNull(cols ...string) *Column {
	return &Column{
		Rule: "not_null",
		Cols: cols,
		Fn:   func(any) bool { return true },
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
