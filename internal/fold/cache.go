package fold

import (
	"context"

	"latticegpm/internal/model"
)

// FoldStore is the slice of the storage layer a persistent fold cache needs.
type FoldStore interface {
	GetFold(ctx context.Context, sequence, tempKey string) (model.FoldRecord, bool, error)
	SaveFold(ctx context.Context, record model.FoldRecord) error
}

// StoreCache wraps an oracle with a persistent result cache. Cache hits skip
// the oracle entirely; misses fold and write through. Oracle errors are
// never cached.
type StoreCache struct {
	oracle Oracle
	store  FoldStore
}

func NewStoreCache(oracle Oracle, store FoldStore) *StoreCache {
	return &StoreCache{oracle: oracle, store: store}
}

func (c *StoreCache) Fold(ctx context.Context, sequence string, temperature float64) (Result, error) {
	tempKey := TempKey(temperature)

	record, ok, err := c.store.GetFold(ctx, sequence, tempKey)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{
			Conformation: record.Conformation,
			Stability:    record.Stability,
			Folded:       record.Folded,
		}, nil
	}

	res, err := c.oracle.Fold(ctx, sequence, temperature)
	if err != nil {
		return Result{}, err
	}

	err = c.store.SaveFold(ctx, model.FoldRecord{
		Sequence:     sequence,
		TempKey:      tempKey,
		Conformation: res.Conformation,
		Stability:    res.Stability,
		Folded:       res.Folded,
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
