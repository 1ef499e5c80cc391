package gpmap

import (
	"fmt"

	"latticegpm/internal/model"
	"latticegpm/internal/phenotype"
	"latticegpm/internal/seq"
	"latticegpm/internal/space"
)

// Map is a complete genotype-phenotype map: the binary mutational space
// between two endpoints with a phenotype at every node. It is immutable
// after New; rebuilding means constructing a new one.
type Map struct {
	space       *space.Space
	kind        phenotype.Kind
	temperature float64
	phenotypes  []float64
}

// New assembles a map from a built space and its phenotypes. The phenotype
// slice must be parallel to the space's canonical index order; New copies
// it so later caller mutation cannot reach the map.
func New(sp *space.Space, kind phenotype.Kind, temperature float64, phenotypes []float64) (*Map, error) {
	if sp == nil {
		return nil, fmt.Errorf("space is required: %w", seq.ErrInvalidArgument)
	}
	if len(phenotypes) != sp.Size() {
		return nil, fmt.Errorf("%d phenotypes for %d genotypes: %w",
			len(phenotypes), sp.Size(), seq.ErrInvalidArgument)
	}
	if _, err := phenotype.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	owned := make([]float64, len(phenotypes))
	copy(owned, phenotypes)
	return &Map{
		space:       sp,
		kind:        kind,
		temperature: temperature,
		phenotypes:  owned,
	}, nil
}

func (m *Map) Size() int {
	return m.space.Size()
}

func (m *Map) Length() int {
	return m.space.Length()
}

func (m *Map) Kind() phenotype.Kind {
	return m.kind
}

func (m *Map) Endpoints() (string, string) {
	return m.space.Endpoints()
}

func (m *Map) Genotype(index int) string {
	return m.space.Genotype(index)
}

func (m *Map) Phenotype(index int) float64 {
	return m.phenotypes[index]
}

// Neighbors returns the hypercube-adjacent genotype indices.
func (m *Map) Neighbors(index int) []int {
	return m.space.Neighbors(index)
}

// Export renders the map as a serializable snapshot in canonical order.
func (m *Map) Export(id string) model.MapRecord {
	endpoint1, endpoint2 := m.space.Endpoints()
	phenotypes := make([]float64, len(m.phenotypes))
	copy(phenotypes, m.phenotypes)
	return model.MapRecord{
		ID:            id,
		Length:        m.space.Length(),
		Alphabet:      alphabetOf(endpoint1, endpoint2),
		Endpoint1:     endpoint1,
		Endpoint2:     endpoint2,
		Temperature:   m.temperature,
		PhenotypeKind: string(m.kind),
		Genotypes:     m.space.Genotypes(),
		Phenotypes:    phenotypes,
	}
}

// alphabetOf collects the distinct symbols of the endpoints in first-seen
// order.
func alphabetOf(sequences ...string) string {
	seen := make(map[byte]struct{})
	var out []byte
	for _, s := range sequences {
		for i := 0; i < len(s); i++ {
			if _, ok := seen[s[i]]; ok {
				continue
			}
			seen[s[i]] = struct{}{}
			out = append(out, s[i])
		}
	}
	return string(out)
}
