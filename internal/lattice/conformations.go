package lattice

import (
	"fmt"

	"latticegpm/internal/seq"
)

// A conformation is a self-avoiding walk on the 2D square lattice, written
// as length-1 moves over U/D/L/R. Enumeration fixes the first move to U and
// forbids L before the first R, which removes rotational and mirror
// duplicates.

// MaxEnumerableLength bounds exhaustive walk enumeration; beyond it the
// conformation count is no longer tractable in memory.
const MaxEnumerableLength = 16

type point struct {
	x, y int
}

var steps = map[byte]point{
	'U': {0, 1},
	'D': {0, -1},
	'L': {-1, 0},
	'R': {1, 0},
}

// moveOrder fixes the branch order so enumeration output is deterministic.
var moveOrder = []byte{'U', 'R', 'D', 'L'}

// Enumerate returns every canonical self-avoiding walk for chains of the
// given length, in a stable depth-first order.
func Enumerate(length int) ([]string, error) {
	if length < 2 {
		return nil, fmt.Errorf("chain length %d too short to fold: %w", length, seq.ErrInvalidArgument)
	}
	if length > MaxEnumerableLength {
		return nil, fmt.Errorf("chain length %d exceeds enumerable maximum %d: %w", length, MaxEnumerableLength, seq.ErrInvalidArgument)
	}

	visited := map[point]bool{{0, 0}: true, {0, 1}: true}
	walk := make([]byte, 1, length-1)
	walk[0] = 'U'

	var out []string
	var extend func(pos point, seenR bool)
	extend = func(pos point, seenR bool) {
		if len(walk) == length-1 {
			out = append(out, string(walk))
			return
		}
		for _, move := range moveOrder {
			if move == 'L' && !seenR {
				continue
			}
			step := steps[move]
			next := point{pos.x + step.x, pos.y + step.y}
			if visited[next] {
				continue
			}
			visited[next] = true
			walk = append(walk, move)
			extend(next, seenR || move == 'R')
			walk = walk[:len(walk)-1]
			delete(visited, next)
		}
	}
	extend(point{0, 1}, false)
	return out, nil
}

// coords places each residue of a walk on the lattice.
func coords(conformation string) ([]point, error) {
	positions := make([]point, len(conformation)+1)
	seen := map[point]bool{positions[0]: true}
	pos := point{0, 0}
	for i := 0; i < len(conformation); i++ {
		step, ok := steps[conformation[i]]
		if !ok {
			return nil, fmt.Errorf("unknown move %q in conformation %q", conformation[i], conformation)
		}
		pos = point{pos.x + step.x, pos.y + step.y}
		if seen[pos] {
			return nil, fmt.Errorf("conformation %q is not self-avoiding", conformation)
		}
		seen[pos] = true
		positions[i+1] = pos
	}
	return positions, nil
}

// Contacts returns the residue pairs that are lattice neighbors but not
// chain neighbors, ordered by position in the chain.
func Contacts(sequence, conformation string) ([][2]byte, error) {
	if len(conformation) != len(sequence)-1 {
		return nil, fmt.Errorf("conformation %q has %d moves, want %d for sequence %q",
			conformation, len(conformation), len(sequence)-1, sequence)
	}
	positions, err := coords(conformation)
	if err != nil {
		return nil, err
	}
	index := make(map[point]int, len(positions))
	for i, p := range positions {
		index[p] = i
	}

	var contacts [][2]byte
	for i, p := range positions {
		for _, move := range moveOrder {
			step := steps[move]
			j, ok := index[point{p.x + step.x, p.y + step.y}]
			if ok && j > i+1 {
				contacts = append(contacts, [2]byte{sequence[i], sequence[j]})
			}
		}
	}
	return contacts, nil
}
