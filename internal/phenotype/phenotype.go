package phenotype

import (
	"context"
	"fmt"
	"math"
	"sync"

	"latticegpm/internal/fold"
	"latticegpm/internal/seq"
	"latticegpm/internal/space"
)

// Kind selects which readout annotates each genotype.
type Kind string

const (
	Stability  Kind = "stability"
	FracFolded Kind = "fraction_folded"
	Fitness    Kind = "fitness"
)

func ParseKind(s string) (Kind, error) {
	switch s {
	case "", string(Stability):
		return Stability, nil
	case string(FracFolded):
		return FracFolded, nil
	case string(Fitness):
		return Fitness, nil
	default:
		return "", fmt.Errorf("unknown phenotype kind %q: %w", s, seq.ErrInvalidArgument)
	}
}

// FracFoldedFromStability maps stability to the equilibrium fraction of
// chains in the native state: 1 / (1 + exp(dG / kT)). It is strictly
// decreasing in stability and maps into (0, 1).
func FracFoldedFromStability(stability, kT float64) float64 {
	return 1.0 / (1.0 + math.Exp(stability/kT))
}

// FitnessFunc converts fraction folded into fitness. It must be a total
// function on [0, 1].
type FitnessFunc func(fracFolded float64) float64

// IdentityFitness uses fraction folded as fitness directly.
func IdentityFitness(fracFolded float64) float64 {
	return fracFolded
}

// Mapper annotates every genotype of a mutational space with a phenotype.
type Mapper struct {
	Oracle  fold.Oracle
	Workers int
	// Boltzmann scales temperature in the fraction-folded transform;
	// zero means 1.
	Boltzmann float64
	// Fitness converts fraction folded to fitness for Kind == Fitness;
	// nil means IdentityFitness.
	Fitness FitnessFunc
}

// Map folds each genotype once (duplicate sequences are resolved through a
// per-run memo) and returns phenotypes parallel to the space's canonical
// index order. Oracle errors abort the pass and propagate unchanged.
func (m *Mapper) Map(ctx context.Context, sp *space.Space, kind Kind, temperature float64) ([]float64, error) {
	if m.Oracle == nil {
		return nil, fmt.Errorf("oracle is required: %w", seq.ErrInvalidArgument)
	}
	if sp == nil {
		return nil, fmt.Errorf("space is required: %w", seq.ErrInvalidArgument)
	}
	if temperature <= 0 {
		return nil, fmt.Errorf("temperature must be positive, got %g: %w", temperature, seq.ErrInvalidArgument)
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	kT := temperature
	if m.Boltzmann != 0 {
		kT = m.Boltzmann * temperature
	}
	fitness := m.Fitness
	if fitness == nil {
		fitness = IdentityFitness
	}

	memo := fold.NewMemo(m.Oracle)

	type job struct {
		idx int
	}
	type result struct {
		idx   int
		value float64
		err   error
	}

	workerCount := m.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > sp.Size() {
		workerCount = sp.Size()
	}

	jobs := make(chan job)
	results := make(chan result, sp.Size())

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				res, err := memo.Fold(ctx, sp.Genotype(j.idx), temperature)
				if err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				value := res.Stability
				switch kind {
				case FracFolded:
					value = FracFoldedFromStability(res.Stability, kT)
				case Fitness:
					value = fitness(FracFoldedFromStability(res.Stability, kT))
				}
				results <- result{idx: j.idx, value: value}
			}
		}()
	}

	for i := 0; i < sp.Size(); i++ {
		jobs <- job{idx: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	phenotypes := make([]float64, sp.Size())
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		phenotypes[res.idx] = res.value
	}
	return phenotypes, nil
}
