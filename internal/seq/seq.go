package seq

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Alphabet is the set of residue symbols a sequence may draw from.
type Alphabet string

const (
	// HP is the two-letter polar/non-polar lattice model alphabet.
	HP Alphabet = "HP"
	// Amino is the twenty standard amino acids.
	Amino Alphabet = "ACDEFGHIKLMNPQRSTVWY"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Contains reports whether the symbol belongs to the alphabet.
func (a Alphabet) Contains(symbol byte) bool {
	return strings.IndexByte(string(a), symbol) >= 0
}

// Validate checks that every symbol of the sequence belongs to the alphabet.
func (a Alphabet) Validate(sequence string) error {
	if len(a) == 0 {
		return fmt.Errorf("empty alphabet: %w", ErrInvalidArgument)
	}
	for i := 0; i < len(sequence); i++ {
		if !a.Contains(sequence[i]) {
			return fmt.Errorf("symbol %q at site %d not in alphabet %q: %w", sequence[i], i, a, ErrInvalidArgument)
		}
	}
	return nil
}

// Random draws a sequence of the given length, each site independent and
// uniform over the alphabet.
func Random(rng *rand.Rand, length int, alphabet Alphabet) (string, error) {
	if rng == nil {
		return "", fmt.Errorf("random source is required: %w", ErrInvalidArgument)
	}
	if length < 0 {
		return "", fmt.Errorf("negative length %d: %w", length, ErrInvalidArgument)
	}
	if len(alphabet) == 0 {
		return "", fmt.Errorf("empty alphabet: %w", ErrInvalidArgument)
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String(), nil
}

// Hamming returns the number of sites at which the two sequences differ.
func Hamming(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("sequence lengths differ (%d vs %d): %w", len(a), len(b), ErrInvalidArgument)
	}
	distance := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance, nil
}
