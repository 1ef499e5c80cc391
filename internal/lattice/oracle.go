package lattice

import (
	"context"
	"fmt"

	"latticegpm/internal/fold"
	"latticegpm/internal/seq"
)

// ctxCheckInterval is how many conformations are scored between context
// cancellation checks.
const ctxCheckInterval = 1024

// Oracle folds sequences over an enumerated conformation set with a contact
// energy table. It implements fold.Oracle and is safe for concurrent use:
// all state is fixed at construction.
type Oracle struct {
	length        int
	alphabet      seq.Alphabet
	conformations []string
	energies      EnergyTable
}

func NewOracle(length int, alphabet seq.Alphabet, conformations []string, energies EnergyTable) (*Oracle, error) {
	if length < 2 {
		return nil, fmt.Errorf("chain length %d too short to fold: %w", length, seq.ErrInvalidArgument)
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("empty alphabet: %w", seq.ErrInvalidArgument)
	}
	if len(conformations) == 0 {
		return nil, fmt.Errorf("no conformations for length %d: %w", length, fold.ErrConformationNotFound)
	}
	for _, c := range conformations {
		if len(c) != length-1 {
			return nil, fmt.Errorf("conformation %q has %d moves, want %d: %w",
				c, len(c), length-1, fold.ErrConformationNotFound)
		}
	}
	return &Oracle{
		length:        length,
		alphabet:      alphabet,
		conformations: conformations,
		energies:      energies,
	}, nil
}

// NewHPOracle enumerates conformations for the given length and folds with
// the hydrophobic-polar energy model.
func NewHPOracle(length int) (*Oracle, error) {
	conformations, err := Enumerate(length)
	if err != nil {
		return nil, err
	}
	return NewOracle(length, seq.HP, conformations, HPEnergies)
}

func (o *Oracle) Length() int {
	return o.length
}

func (o *Oracle) Fold(ctx context.Context, sequence string, temperature float64) (fold.Result, error) {
	if len(sequence) != o.length {
		return fold.Result{}, fmt.Errorf("sequence %q has length %d, oracle folds length %d: %w",
			sequence, len(sequence), o.length, fold.ErrInvalidSequence)
	}
	if err := o.alphabet.Validate(sequence); err != nil {
		return fold.Result{}, fmt.Errorf("sequence %q: %w", sequence, fold.ErrInvalidSequence)
	}
	if temperature <= 0 {
		return fold.Result{}, fmt.Errorf("temperature must be positive, got %g: %w", temperature, seq.ErrInvalidArgument)
	}

	energies := make([]float64, len(o.conformations))
	native := 0
	for i, conformation := range o.conformations {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fold.Result{}, err
			}
		}
		e, err := ChainEnergy(sequence, conformation, o.energies)
		if err != nil {
			return fold.Result{}, err
		}
		energies[i] = e
		if e < energies[native] {
			native = i
		}
	}

	stability, folded := Stability(energies, temperature)
	if !folded {
		return fold.Result{Folded: false}, nil
	}
	return fold.Result{
		Conformation: o.conformations[native],
		Stability:    stability,
		Folded:       true,
	}, nil
}
