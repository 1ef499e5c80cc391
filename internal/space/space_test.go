package space

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"latticegpm/internal/seq"
)

func TestBuildEnumeratesFullHypercube(t *testing.T) {
	sp, err := Build("HPHP", "PHPH", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sp.Size() != 16 || sp.Length() != 4 {
		t.Fatalf("expected 16 genotypes of length 4, got %d of %d", sp.Size(), sp.Length())
	}

	seen := make(map[string]struct{}, sp.Size())
	vectors := make(map[string]struct{}, sp.Size())
	for i := 0; i < sp.Size(); i++ {
		g := sp.Genotype(i)
		if _, dup := seen[g]; dup {
			t.Fatalf("duplicate genotype %q at index %d", g, i)
		}
		seen[g] = struct{}{}
		v := sp.Vector(i)
		if _, dup := vectors[v]; dup {
			t.Fatalf("duplicate binary vector %q at index %d", v, i)
		}
		vectors[v] = struct{}{}
	}
	if len(seen) != 16 {
		t.Fatalf("expected 16 distinct genotypes, got %d", len(seen))
	}

	// Index 0 is endpoint 1, the last index is endpoint 2.
	if sp.Genotype(0) != "HPHP" {
		t.Fatalf("index 0 = %q, want endpoint 1", sp.Genotype(0))
	}
	if sp.Genotype(15) != "PHPH" {
		t.Fatalf("index 15 = %q, want endpoint 2", sp.Genotype(15))
	}
}

func TestGenotypeSiteSelectionRule(t *testing.T) {
	sp, err := Build("HPHP", "PHPH", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Binary vector (0,1,0,1) selects endpoint1[0], endpoint2[1],
	// endpoint1[2], endpoint2[3] = H, H, H, H.
	index := 1<<1 | 1<<3
	if v := sp.Vector(index); v != "0101" {
		t.Fatalf("vector = %q, want 0101", v)
	}
	if g := sp.Genotype(index); g != "HHHH" {
		t.Fatalf("genotype for vector 0101 = %q, want HHHH", g)
	}
}

func TestNeighborsAreSingleSiteFlips(t *testing.T) {
	sp, err := Build("HPHP", "PHPH", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < sp.Size(); i++ {
		neighbors := sp.Neighbors(i)
		if len(neighbors) != sp.Length() {
			t.Fatalf("index %d has %d neighbors, want %d", i, len(neighbors), sp.Length())
		}
		for _, n := range neighbors {
			d, err := seq.Hamming(sp.Genotype(i), sp.Genotype(n))
			if err != nil {
				t.Fatalf("hamming: %v", err)
			}
			if d != 1 {
				t.Fatalf("indices %d and %d differ at %d sites, want 1", i, n, d)
			}
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build("HPHP", "PHPH", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := Build("HPHP", "PHPH", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(a.Genotypes(), b.Genotypes()) {
		t.Fatal("repeated builds produced different enumerations")
	}
}

func TestBuildRejectsIncompatibleEndpoints(t *testing.T) {
	if _, err := Build("AAAA", "AAAA", 0); !errors.Is(err, ErrIncompatibleEndpoints) {
		t.Fatalf("expected ErrIncompatibleEndpoints for identical endpoints, got %v", err)
	}
	if _, err := Build("HPH", "PHPH", 0); !errors.Is(err, ErrIncompatibleEndpoints) {
		t.Fatalf("expected ErrIncompatibleEndpoints for unequal lengths, got %v", err)
	}
	if _, err := Build("HPHP", "PHPP", 0); !errors.Is(err, ErrIncompatibleEndpoints) {
		t.Fatalf("expected ErrIncompatibleEndpoints for partial divergence, got %v", err)
	}
	if _, err := Build("", "", 0); !errors.Is(err, ErrIncompatibleEndpoints) {
		t.Fatalf("expected ErrIncompatibleEndpoints for empty endpoints, got %v", err)
	}
}

func TestBuildRejectsOversizedSpaces(t *testing.T) {
	e1 := strings.Repeat("H", 11)
	e2 := strings.Repeat("P", 11)
	// 2^11 = 2048 > 1024: refused outright, never truncated.
	if _, err := Build(e1, e2, 1024); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	// 2^10 = 1024 fits exactly.
	if _, err := Build(e1[:10], e2[:10], 1024); err != nil {
		t.Fatalf("2^10 should fit in 1024: %v", err)
	}
}
