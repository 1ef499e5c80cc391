package lattice

import (
	"math"

	"latticegpm/internal/model"
)

// EnergyTable maps two-letter residue pairs to contact energies. Lookups
// are symmetric: "HP" and "PH" resolve to the same value, whichever is
// present. Pairs absent from the table contribute zero.
type EnergyTable map[string]float64

// HPEnergies is the standard hydrophobic-polar model: H-H contacts are
// favorable, everything else is neutral.
var HPEnergies = EnergyTable{"HH": -1}

func (t EnergyTable) Pair(a, b byte) float64 {
	if e, ok := t[string([]byte{a, b})]; ok {
		return e
	}
	return t[string([]byte{b, a})]
}

// FromRecord converts a stored contact-energy table.
func FromRecord(record model.EnergyTableRecord) EnergyTable {
	return EnergyTable(record.Energies)
}

// ChainEnergy sums the contact energies of a sequence in a conformation.
func ChainEnergy(sequence, conformation string, table EnergyTable) (float64, error) {
	contacts, err := Contacts(sequence, conformation)
	if err != nil {
		return 0, err
	}
	energy := 0.0
	for _, c := range contacts {
		energy += table.Pair(c[0], c[1])
	}
	return energy, nil
}

// Stability computes the free-energy gap between the ground state and the
// rest of the ensemble at the given temperature. The second return is false
// when the ground state is degenerate, in which case the chain is treated
// as unfolded and stability is 0 by convention.
func Stability(energies []float64, temperature float64) (float64, bool) {
	if len(energies) == 0 {
		return 0, false
	}

	minE := energies[0]
	minCount := 1
	partition := 0.0
	for i, e := range energies {
		partition += math.Exp(-e / temperature)
		if i == 0 {
			continue
		}
		switch {
		case e < minE:
			minE = e
			minCount = 1
		case e == minE:
			minCount++
		}
	}
	if minCount > 1 {
		return 0, false
	}
	return minE + temperature*math.Log(partition-math.Exp(-minE/temperature)), true
}
