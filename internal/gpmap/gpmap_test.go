package gpmap

import (
	"errors"
	"reflect"
	"testing"

	"latticegpm/internal/phenotype"
	"latticegpm/internal/seq"
	"latticegpm/internal/space"
)

func buildMap(t *testing.T) *Map {
	t.Helper()
	sp, err := space.Build("HP", "PH", 0)
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	m, err := New(sp, phenotype.Stability, 1.0, []float64{-1, 0, -2, -0.5})
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	return m
}

func TestMapAccessors(t *testing.T) {
	m := buildMap(t)
	if m.Size() != 4 || m.Length() != 2 {
		t.Fatalf("size/length = %d/%d, want 4/2", m.Size(), m.Length())
	}
	if m.Genotype(0) != "HP" || m.Genotype(3) != "PH" {
		t.Fatalf("endpoint genotypes wrong: %q, %q", m.Genotype(0), m.Genotype(3))
	}
	if m.Phenotype(2) != -2 {
		t.Fatalf("phenotype(2) = %g, want -2", m.Phenotype(2))
	}
	if got := m.Neighbors(0); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("neighbors(0) = %v, want [1 2]", got)
	}
}

func TestMapIsIsolatedFromCallerSlice(t *testing.T) {
	sp, err := space.Build("HP", "PH", 0)
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	phenotypes := []float64{1, 2, 3, 4}
	m, err := New(sp, phenotype.Stability, 1.0, phenotypes)
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	phenotypes[0] = 99
	if m.Phenotype(0) != 1 {
		t.Fatal("map shares storage with caller slice")
	}
}

func TestExport(t *testing.T) {
	record := buildMap(t).Export("map-1")
	if record.ID != "map-1" || record.Length != 2 {
		t.Fatalf("unexpected record header: %+v", record)
	}
	if record.Alphabet != "HP" {
		t.Fatalf("alphabet = %q, want HP", record.Alphabet)
	}
	if record.Endpoint1 != "HP" || record.Endpoint2 != "PH" {
		t.Fatalf("endpoints = %q, %q", record.Endpoint1, record.Endpoint2)
	}
	if !reflect.DeepEqual(record.Genotypes, []string{"HP", "PP", "HH", "PH"}) {
		t.Fatalf("genotypes = %v", record.Genotypes)
	}
	if !reflect.DeepEqual(record.Phenotypes, []float64{-1, 0, -2, -0.5}) {
		t.Fatalf("phenotypes = %v", record.Phenotypes)
	}
	if record.PhenotypeKind != "stability" {
		t.Fatalf("phenotype kind = %q", record.PhenotypeKind)
	}
}

func TestNewValidation(t *testing.T) {
	sp, err := space.Build("HP", "PH", 0)
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	if _, err := New(sp, phenotype.Stability, 1.0, []float64{1, 2}); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for short phenotype slice, got %v", err)
	}
	if _, err := New(nil, phenotype.Stability, 1.0, nil); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil space, got %v", err)
	}
	if _, err := New(sp, phenotype.Kind("bogus"), 1.0, []float64{1, 2, 3, 4}); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown kind, got %v", err)
	}
}
