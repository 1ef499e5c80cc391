package search

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"latticegpm/internal/fold"
	"latticegpm/internal/seq"
)

// Config drives the endpoint-pair search.
type Config struct {
	Length       int
	Temperature  float64
	StabilityMax float64
	MaxAttempts  int
	Alphabet     seq.Alphabet
	// Workers > 1 races independent attempts against the shared budget;
	// the first qualifying pair wins.
	Workers int
}

func (c Config) validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("length must be positive, got %d: %w", c.Length, seq.ErrInvalidArgument)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, got %g: %w", c.Temperature, seq.ErrInvalidArgument)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d: %w", c.MaxAttempts, seq.ErrInvalidArgument)
	}
	if len(c.Alphabet) == 0 {
		return fmt.Errorf("empty alphabet: %w", seq.ErrInvalidArgument)
	}
	return nil
}

// Pair is an accepted endpoint pair: both sequences fold with stability at
// or below the configured maximum and differ at every site.
type Pair struct {
	First           string
	Second          string
	FirstStability  float64
	SecondStability float64
	// Attempts is the number of oracle-scored candidates consumed across
	// the whole search when the pair was accepted.
	Attempts int
}

// ExhaustedError reports a search that ran out of attempts. BestStability
// is the lowest stability observed among folded candidates, +Inf if none
// folded; it tells the caller how far StabilityMax was from admitting a
// sequence.
type ExhaustedError struct {
	Attempts      int
	BestStability float64
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("conformation-space search exhausted after %d attempts (best stability observed: %g)",
		e.Attempts, e.BestStability)
}

type candidate struct {
	sequence  string
	stability float64
}

type searcher struct {
	oracle fold.Oracle
	cfg    Config

	attempts atomic.Int64

	mu   sync.Mutex
	best float64
}

// Search draws random sequence pairs through the oracle until both fold
// with stability <= StabilityMax and differ at every site, or the attempt
// budget is spent. Every oracle-scored candidate consumes one attempt.
// Sampling is with replacement; both members of a pair must pass the
// stability filter before the distance constraint is checked.
func Search(ctx context.Context, rng *rand.Rand, oracle fold.Oracle, cfg Config) (Pair, error) {
	if rng == nil {
		return Pair{}, fmt.Errorf("random source is required: %w", seq.ErrInvalidArgument)
	}
	if oracle == nil {
		return Pair{}, fmt.Errorf("oracle is required: %w", seq.ErrInvalidArgument)
	}
	if err := cfg.validate(); err != nil {
		return Pair{}, err
	}

	s := &searcher{oracle: oracle, cfg: cfg, best: math.Inf(1)}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		pair, found, err := s.findPair(ctx, rng)
		if err != nil {
			return Pair{}, err
		}
		if !found {
			return Pair{}, s.exhausted()
		}
		return pair, nil
	}
	return s.race(ctx, rng, workers)
}

func (s *searcher) race(ctx context.Context, rng *rand.Rand, workers int) (Pair, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		pair  Pair
		found bool
		err   error
	}

	// Seed worker sources up front: the shared rng is not safe to use
	// concurrently.
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	results := make(chan outcome, workers)
	for i := 0; i < workers; i++ {
		workerRNG := rand.New(rand.NewSource(seeds[i]))
		go func() {
			pair, found, err := s.findPair(ctx, workerRNG)
			results <- outcome{pair: pair, found: found, err: err}
		}()
	}

	var firstErr error
	for i := 0; i < workers; i++ {
		res := <-results
		if res.found {
			return res.pair, nil
		}
		if res.err != nil && firstErr == nil {
			firstErr = res.err
			cancel()
		}
	}
	if firstErr != nil {
		return Pair{}, firstErr
	}
	if err := parent.Err(); err != nil {
		return Pair{}, err
	}
	return Pair{}, s.exhausted()
}

func (s *searcher) findPair(ctx context.Context, rng *rand.Rand) (Pair, bool, error) {
	for {
		first, ok, err := s.acceptCandidate(ctx, rng)
		if err != nil || !ok {
			return Pair{}, false, err
		}
		second, ok, err := s.acceptCandidate(ctx, rng)
		if err != nil || !ok {
			return Pair{}, false, err
		}

		distance, err := seq.Hamming(first.sequence, second.sequence)
		if err != nil {
			return Pair{}, false, err
		}
		if distance != s.cfg.Length {
			// Discard both and resample.
			continue
		}
		return Pair{
			First:           first.sequence,
			Second:          second.sequence,
			FirstStability:  first.stability,
			SecondStability: second.stability,
			Attempts:        s.attemptsUsed(),
		}, true, nil
	}
}

// acceptCandidate samples sequences until one folds with stability at or
// below the maximum. It returns ok=false when the attempt budget is spent.
func (s *searcher) acceptCandidate(ctx context.Context, rng *rand.Rand) (candidate, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			// Another worker winning the race cancels this one; that is
			// not a caller-visible failure.
			if s.cfg.Workers > 1 && ctx.Err() == context.Canceled {
				return candidate{}, false, nil
			}
			return candidate{}, false, err
		}
		if s.attempts.Add(1) > int64(s.cfg.MaxAttempts) {
			return candidate{}, false, nil
		}

		sequence, err := seq.Random(rng, s.cfg.Length, s.cfg.Alphabet)
		if err != nil {
			return candidate{}, false, err
		}
		res, err := s.oracle.Fold(ctx, sequence, s.cfg.Temperature)
		if err != nil {
			return candidate{}, false, err
		}
		if !res.Folded {
			continue
		}
		s.observe(res.Stability)
		if res.Stability <= s.cfg.StabilityMax {
			return candidate{sequence: sequence, stability: res.Stability}, true, nil
		}
	}
}

func (s *searcher) observe(stability float64) {
	s.mu.Lock()
	if stability < s.best {
		s.best = stability
	}
	s.mu.Unlock()
}

func (s *searcher) attemptsUsed() int {
	used := int(s.attempts.Load())
	if used > s.cfg.MaxAttempts {
		used = s.cfg.MaxAttempts
	}
	return used
}

func (s *searcher) exhausted() *ExhaustedError {
	s.mu.Lock()
	best := s.best
	s.mu.Unlock()
	return &ExhaustedError{Attempts: s.attemptsUsed(), BestStability: best}
}
