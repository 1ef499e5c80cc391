package phenotype

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"latticegpm/internal/fold"
	"latticegpm/internal/seq"
	"latticegpm/internal/space"
)

func buildSpace(t *testing.T) *space.Space {
	t.Helper()
	sp, err := space.Build("HP", "PH", 0)
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	return sp
}

// tableFor covers every genotype between HP and PH.
func tableFor() map[string]fold.Result {
	return map[string]fold.Result{
		"HP": {Stability: -1, Folded: true},
		"PP": {Stability: 0, Folded: false},
		"HH": {Stability: -2, Folded: true},
		"PH": {Stability: -0.5, Folded: true},
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"", "stability", "fraction_folded", "fitness"} {
		if _, err := ParseKind(s); err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
	}
	if _, err := ParseKind("free_energy"); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestFracFoldedTransform(t *testing.T) {
	prev := 1.0
	for s := -10.0; s <= 10.0; s += 0.25 {
		ff := FracFoldedFromStability(s, 1.0)
		if ff <= 0 || ff >= 1 {
			t.Fatalf("fraction folded %g out of (0,1) at stability %g", ff, s)
		}
		if ff >= prev {
			t.Fatalf("fraction folded not strictly decreasing at stability %g", s)
		}
		prev = ff
	}
	// More stable (more negative) means more folded.
	if FracFoldedFromStability(-5, 1.0) <= FracFoldedFromStability(5, 1.0) {
		t.Fatal("stability ordering not reversed by transform")
	}
}

func TestMapStabilityPassthrough(t *testing.T) {
	oracle := fold.NewTableOracle(tableFor())
	mapper := &Mapper{Oracle: oracle, Workers: 2}

	phenotypes, err := mapper.Map(context.Background(), buildSpace(t), Stability, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	want := []float64{-1, 0, -2, -0.5}
	if !reflect.DeepEqual(phenotypes, want) {
		t.Fatalf("phenotypes = %v, want %v", phenotypes, want)
	}
	if got := oracle.Calls(); got != 4 {
		t.Fatalf("expected one fold per genotype, got %d", got)
	}
}

func TestMapFracFolded(t *testing.T) {
	mapper := &Mapper{Oracle: fold.NewTableOracle(tableFor())}

	phenotypes, err := mapper.Map(context.Background(), buildSpace(t), FracFolded, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	stabilities := []float64{-1, 0, -2, -0.5}
	for i, s := range stabilities {
		want := 1.0 / (1.0 + math.Exp(s))
		if math.Abs(phenotypes[i]-want) > 1e-12 {
			t.Fatalf("index %d: fraction folded %g, want %g", i, phenotypes[i], want)
		}
	}
}

func TestMapFitnessUsesInjectedFunction(t *testing.T) {
	mapper := &Mapper{
		Oracle:  fold.NewTableOracle(tableFor()),
		Fitness: func(ff float64) float64 { return 2 * ff },
	}

	phenotypes, err := mapper.Map(context.Background(), buildSpace(t), Fitness, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	for i, p := range phenotypes {
		if p <= 0 || p >= 2 {
			t.Fatalf("index %d: fitness %g out of (0,2)", i, p)
		}
	}

	// Default fitness is identity on fraction folded.
	mapper.Fitness = nil
	identity, err := mapper.Map(context.Background(), buildSpace(t), Fitness, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	fracs, err := mapper.Map(context.Background(), buildSpace(t), FracFolded, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !reflect.DeepEqual(identity, fracs) {
		t.Fatal("identity fitness should equal fraction folded")
	}
}

func TestMapBoltzmannScalesTemperature(t *testing.T) {
	mapper := &Mapper{Oracle: fold.NewTableOracle(tableFor()), Boltzmann: 2.0}

	phenotypes, err := mapper.Map(context.Background(), buildSpace(t), FracFolded, 1.0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	want := 1.0 / (1.0 + math.Exp(-1.0/2.0))
	if math.Abs(phenotypes[0]-want) > 1e-12 {
		t.Fatalf("fraction folded with kT=2: %g, want %g", phenotypes[0], want)
	}
}

func TestMapPropagatesOracleErrors(t *testing.T) {
	table := tableFor()
	delete(table, "HH")
	mapper := &Mapper{Oracle: fold.NewTableOracle(table), Workers: 4}

	_, err := mapper.Map(context.Background(), buildSpace(t), Stability, 1.0)
	if !errors.Is(err, fold.ErrInvalidSequence) {
		t.Fatalf("expected oracle error to propagate, got %v", err)
	}
}

func TestMapValidatesArguments(t *testing.T) {
	mapper := &Mapper{Oracle: fold.NewTableOracle(tableFor())}
	sp := buildSpace(t)

	if _, err := mapper.Map(context.Background(), sp, Stability, 0); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for non-positive temperature, got %v", err)
	}
	if _, err := mapper.Map(context.Background(), sp, Kind("bogus"), 1.0); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown kind, got %v", err)
	}
	if _, err := (&Mapper{}).Map(context.Background(), sp, Stability, 1.0); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for missing oracle, got %v", err)
	}
}
