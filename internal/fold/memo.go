package fold

import (
	"context"
	"strconv"
	"sync"
)

type memoKey struct {
	sequence string
	tempKey  string
}

// Memo caches successful oracle results keyed by (sequence, temperature).
// It is safe for concurrent use; errors are not cached.
type Memo struct {
	oracle Oracle

	mu      sync.RWMutex
	entries map[memoKey]Result
}

func NewMemo(oracle Oracle) *Memo {
	return &Memo{
		oracle:  oracle,
		entries: make(map[memoKey]Result),
	}
}

func (m *Memo) Fold(ctx context.Context, sequence string, temperature float64) (Result, error) {
	key := memoKey{sequence: sequence, tempKey: TempKey(temperature)}

	m.mu.RLock()
	res, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return res, nil
	}

	res, err := m.oracle.Fold(ctx, sequence, temperature)
	if err != nil {
		return Result{}, err
	}

	m.mu.Lock()
	m.entries[key] = res
	m.mu.Unlock()
	return res, nil
}

// TempKey renders a temperature as a stable cache key.
func TempKey(temperature float64) string {
	return strconv.FormatFloat(temperature, 'g', -1, 64)
}
