package space

import (
	"errors"
	"fmt"

	"latticegpm/internal/seq"
)

var (
	// ErrIncompatibleEndpoints reports endpoint sequences of unequal length
	// or not differing at every site.
	ErrIncompatibleEndpoints = errors.New("incompatible endpoint sequences")
	// ErrCapacityExceeded reports a mutational space larger than the
	// configured genotype bound.
	ErrCapacityExceeded = errors.New("mutational space exceeds genotype capacity")
)

// DefaultMaxGenotypes bounds enumeration when callers pass no explicit cap.
const DefaultMaxGenotypes = 1 << 20

// Space is the binary mutational space between two endpoint sequences that
// differ at every site. Genotypes are addressed by index 0 .. 2^L-1; bit i
// of an index selects, at site i, endpoint 1 (bit 0) or endpoint 2 (bit 1).
// Adjacency is the L-dimensional hypercube and is computed on demand rather
// than stored. A Space is immutable after Build.
type Space struct {
	endpoint1 string
	endpoint2 string
	length    int
	size      int
}

// Build validates the endpoints and constructs the space. The capacity
// check runs before any enumeration; maxGenotypes <= 0 selects
// DefaultMaxGenotypes.
func Build(endpoint1, endpoint2 string, maxGenotypes int) (*Space, error) {
	if len(endpoint1) != len(endpoint2) {
		return nil, fmt.Errorf("endpoint lengths differ (%d vs %d): %w",
			len(endpoint1), len(endpoint2), ErrIncompatibleEndpoints)
	}
	length := len(endpoint1)
	if length == 0 {
		return nil, fmt.Errorf("empty endpoints: %w", ErrIncompatibleEndpoints)
	}
	distance, err := seq.Hamming(endpoint1, endpoint2)
	if err != nil {
		return nil, err
	}
	if distance != length {
		return nil, fmt.Errorf("endpoints differ at %d of %d sites, must differ at every site: %w",
			distance, length, ErrIncompatibleEndpoints)
	}
	if maxGenotypes <= 0 {
		maxGenotypes = DefaultMaxGenotypes
	}
	if length >= 63 || 1<<uint(length) > maxGenotypes {
		return nil, fmt.Errorf("2^%d genotypes exceed maximum %d: %w",
			length, maxGenotypes, ErrCapacityExceeded)
	}
	return &Space{
		endpoint1: endpoint1,
		endpoint2: endpoint2,
		length:    length,
		size:      1 << uint(length),
	}, nil
}

// Size is the number of genotypes, 2^L.
func (s *Space) Size() int {
	return s.size
}

// Length is the sequence length L.
func (s *Space) Length() int {
	return s.length
}

// Endpoints returns the two defining sequences.
func (s *Space) Endpoints() (string, string) {
	return s.endpoint1, s.endpoint2
}

// Genotype materializes the sequence at the given index by site-wise
// selection between the endpoints.
func (s *Space) Genotype(index int) string {
	b := make([]byte, s.length)
	for i := 0; i < s.length; i++ {
		if index>>uint(i)&1 == 0 {
			b[i] = s.endpoint1[i]
		} else {
			b[i] = s.endpoint2[i]
		}
	}
	return string(b)
}

// Vector renders the binary-site identity of an index, site 0 first.
func (s *Space) Vector(index int) string {
	b := make([]byte, s.length)
	for i := 0; i < s.length; i++ {
		b[i] = '0' + byte(index>>uint(i)&1)
	}
	return string(b)
}

// Neighbors returns the indices at Hamming distance 1, one per site, in
// site order.
func (s *Space) Neighbors(index int) []int {
	neighbors := make([]int, s.length)
	for i := 0; i < s.length; i++ {
		neighbors[i] = index ^ 1<<uint(i)
	}
	return neighbors
}

// Genotypes materializes every sequence in canonical index order.
func (s *Space) Genotypes() []string {
	genotypes := make([]string, s.size)
	for i := 0; i < s.size; i++ {
		genotypes[i] = s.Genotype(i)
	}
	return genotypes
}
