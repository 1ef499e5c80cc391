package fold

import (
	"context"
	"errors"
)

// Result is the outcome of folding one sequence at one temperature.
// Conformation is opaque to callers; only the oracle that produced it can
// interpret it. Folded is false when the sequence has no unique native
// state, in which case Stability is 0 by convention.
type Result struct {
	Conformation string
	Stability    float64
	Folded       bool
}

// Oracle computes the native conformation and stability of a sequence.
// Implementations must be deterministic for fixed inputs and safe for
// concurrent use. Chain length and the backing conformation data are fixed
// at construction.
type Oracle interface {
	Fold(ctx context.Context, sequence string, temperature float64) (Result, error)
}

var (
	// ErrConformationNotFound reports that the oracle's conformation data
	// does not cover the requested chain length.
	ErrConformationNotFound = errors.New("conformation data does not cover sequence length")
	// ErrInvalidSequence reports a sequence with symbols outside the
	// oracle's alphabet or of the wrong length.
	ErrInvalidSequence = errors.New("invalid sequence for oracle")
)
