package datavet

import (
	"context"
	"fmt"
)

// Rule is a single validation check over a Frame. Evaluate never mutates the
// frame and reports problems as violations instead of returning an error:
// a predicate that blows up on some input is a failure of that rule, not of
// the pipeline.
type Rule interface {
	Name() string
	// Columns lists the columns the rule reads. Run verifies they exist
	// before any rule evaluates.
	Columns() []string
	Evaluate(ctx context.Context, f *Frame) []Violation
}

// Violation is one recorded failure of a rule against specific data.
// Row is 0-based; -1 marks a column-level problem such as a kind mismatch.
type Violation struct {
	Rule    string `json:"rule"`
	Column  string `json:"column,omitempty"`
	Row     int    `json:"row"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// Report is the aggregated outcome of a run. It is built fresh per run and
// returned as the error when any rule produced violations.
type Report struct {
	Violations []Violation `json:"violations"`
}

// OK reports whether the run passed.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

func (r *Report) Error() string {
	if len(r.Violations) == 1 {
		v := r.Violations[0]
		return fmt.Sprintf("validation failed: rule %q, column %q, row %d: %s", v.Rule, v.Column, v.Row, v.Message)
	}
	return fmt.Sprintf("validation failed: %d violations", len(r.Violations))
}

// SchemaError means a rule references a column the frame does not have.
// It is a usage bug, raised before any rule evaluates.
type SchemaError struct {
	Rule   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("rule %q references unknown column %q", e.Rule, e.Column)
}
