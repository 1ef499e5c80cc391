package fold

import (
	"context"
	"fmt"
	"sync/atomic"
)

// TableOracle resolves folds from a fixed sequence -> Result table. It is
// the deterministic stand-in used by tests and fixtures in place of a real
// folding computation. Sequences absent from the table fail with
// ErrInvalidSequence.
type TableOracle struct {
	Results map[string]Result

	calls atomic.Int64
}

func NewTableOracle(results map[string]Result) *TableOracle {
	return &TableOracle{Results: results}
}

func (o *TableOracle) Fold(_ context.Context, sequence string, _ float64) (Result, error) {
	o.calls.Add(1)
	res, ok := o.Results[sequence]
	if !ok {
		return Result{}, fmt.Errorf("sequence %q not in table: %w", sequence, ErrInvalidSequence)
	}
	return res, nil
}

// Calls reports how many times Fold has been invoked.
func (o *TableOracle) Calls() int64 {
	return o.calls.Load()
}
