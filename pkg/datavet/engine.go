package datavet

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Mode selects the failure policy for a run.
type Mode int

const (
	// FailFast stops at the first rule that produces any violation; later
	// rules are never evaluated.
	FailFast Mode = iota
	// CollectAll evaluates every rule and aggregates all violations in rule
	// order before deciding the outcome.
	CollectAll
)

func (m Mode) String() string {
	if m == CollectAll {
		return "collect-all"
	}
	return "fail-fast"
}

// Run evaluates rules against f in declaration order. On success the original
// frame is returned unchanged, so callers can keep composing. On failure the
// frame is withheld and the error is a *Report; a rule referencing a missing
// column aborts before any evaluation with a *SchemaError.
func Run(ctx context.Context, f *Frame, rules []Rule, mode Mode) (*Frame, error) {
	if len(rules) == 0 {
		return nil, errors.New("datavet: empty rule list")
	}
	for _, r := range rules {
		for _, name := range r.Columns() {
			if _, ok := f.ColumnByName(name); !ok {
				return nil, errors.WithStack(&SchemaError{Rule: r.Name(), Column: name})
			}
		}
	}

	rep := &Report{}
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep.Violations = append(rep.Violations, r.Evaluate(ctx, f)...)
		if mode == FailFast && len(rep.Violations) > 0 {
			return nil, rep
		}
	}
	if !rep.OK() {
		return nil, rep
	}
	return f, nil
}

// Validator is a reusable binding of a rule list and mode. It holds no
// mutable state, so one validator can be applied to any number of frames.
type Validator func(ctx context.Context, f *Frame) (*Frame, error)

// NewValidator closes over rules and mode so the same checks can be applied
// to multiple datasets without re-specifying them.
func NewValidator(mode Mode, rules ...Rule) Validator {
	bound := make([]Rule, len(rules))
	copy(bound, rules)
	return func(ctx context.Context, f *Frame) (*Frame, error) {
		return Run(ctx, f, bound, mode)
	}
}
