package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// MapRecord is the serializable snapshot of a genotype-phenotype map.
// Genotypes are listed in canonical binary-vector order (index 0 .. 2^L-1)
// and Phenotypes is parallel to Genotypes.
type MapRecord struct {
	VersionedRecord
	ID            string    `json:"id"`
	Length        int       `json:"length"`
	Alphabet      string    `json:"alphabet"`
	Endpoint1     string    `json:"endpoint1"`
	Endpoint2     string    `json:"endpoint2"`
	Temperature   float64   `json:"temperature"`
	PhenotypeKind string    `json:"phenotype_kind"`
	Genotypes     []string  `json:"genotypes"`
	Phenotypes    []float64 `json:"phenotypes"`
}

// RunRecord describes one end-to-end search/build/map run.
type RunRecord struct {
	VersionedRecord
	ID            string  `json:"id"`
	CreatedAtUTC  string  `json:"created_at_utc"`
	Length        int     `json:"length"`
	Alphabet      string  `json:"alphabet"`
	EnergyModel   string  `json:"energy_model"`
	Temperature   float64 `json:"temperature"`
	StabilityMax  float64 `json:"stability_max"`
	MaxAttempts   int     `json:"max_attempts"`
	Attempts      int     `json:"attempts"`
	Seed          int64   `json:"seed"`
	PhenotypeKind string  `json:"phenotype_kind"`
	Endpoint1     string  `json:"endpoint1"`
	Endpoint2     string  `json:"endpoint2"`
	MapID         string  `json:"map_id"`
}

// FoldRecord caches one oracle result keyed by sequence and temperature.
type FoldRecord struct {
	VersionedRecord
	Sequence     string  `json:"sequence"`
	TempKey      string  `json:"temp_key"`
	Conformation string  `json:"conformation"`
	Stability    float64 `json:"stability"`
	Folded       bool    `json:"folded"`
}

// ConformationSet holds the enumerated self-avoiding walks for one chain length.
type ConformationSet struct {
	VersionedRecord
	Length        int      `json:"length"`
	Conformations []string `json:"conformations"`
}

// EnergyTableRecord holds a named residue-pair contact energy table.
// Keys are two-letter residue pairs, e.g. "HH".
type EnergyTableRecord struct {
	VersionedRecord
	Name     string             `json:"name"`
	Energies map[string]float64 `json:"energies"`
}
