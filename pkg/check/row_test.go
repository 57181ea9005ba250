package check_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/datavet/pkg/check"
	dv "github.com/wdm0006/datavet/pkg/datavet"
)

func rangeFrame(t *testing.T, lo, hi []any) *dv.Frame {
	t.Helper()
	f := dv.NewFrame(dv.Schema{Columns: []dv.ColumnSchema{
		{Name: "min_height", Type: dv.KindFloat, Nullable: true},
		{Name: "max_height", Type: dv.KindFloat, Nullable: true},
	}})
	for i := range lo {
		f.AppendNullRow()
		if lo[i] != nil {
			require.NoError(t, f.SetCell(i, "min_height", lo[i]))
		}
		if hi[i] != nil {
			require.NoError(t, f.SetCell(i, "max_height", hi[i]))
		}
	}
	return f
}

func TestCompare(t *testing.T) {
	f := rangeFrame(t, []any{1.0, 5.0, 2.0}, []any{2.0, 3.0, 2.0})
	vs := check.Compare("min_height", "<=", "max_height").Evaluate(context.Background(), f)
	require.Len(t, vs, 1)
	require.Equal(t, 1, vs[0].Row)
}

func TestCompareMissingValueFailsRow(t *testing.T) {
	f := rangeFrame(t, []any{1.0, nil}, []any{2.0, 3.0})
	vs := check.Compare("min_height", "<", "max_height").Evaluate(context.Background(), f)
	require.Len(t, vs, 1)
	require.Equal(t, 1, vs[0].Row, "null in a boolean expression is a failure")
}

func TestOverRowsPredicateErrorBecomesViolation(t *testing.T) {
	f := rangeFrame(t, []any{1.0}, []any{2.0})
	boom := check.OverRows("boom", func(r dv.Row) (bool, error) {
		return false, errors.New("bad input type")
	}, "min_height")
	vs := boom.Evaluate(context.Background(), f)
	require.Len(t, vs, 1)
	require.Contains(t, vs[0].Message, "bad input type")
}

func TestOverRowsPanicRecovered(t *testing.T) {
	f := rangeFrame(t, []any{1.0}, []any{2.0})
	boom := check.OverRows("boom", func(r dv.Row) (bool, error) {
		panic("predicate bug")
	}, "min_height")
	vs := boom.Evaluate(context.Background(), f)
	require.Len(t, vs, 1)
	require.Contains(t, vs[0].Message, "predicate bug")
}

func TestOverRowsWithinEngine(t *testing.T) {
	f := rangeFrame(t, []any{1.0, 5.0}, []any{2.0, 3.0})
	rule := check.Compare("min_height", "<=", "max_height")
	_, err := dv.Run(context.Background(), f, []dv.Rule{rule}, dv.FailFast)
	var rep *dv.Report
	require.True(t, errors.As(err, &rep))
	require.Equal(t, "compare", rep.Violations[0].Rule)
}
