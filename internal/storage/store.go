package storage

import (
	"context"

	"latticegpm/internal/model"
)

// Store defines persistence for genotype-phenotype maps, run records, the
// fold-result cache and the lattice oracle's conformation/energy data.
type Store interface {
	Init(ctx context.Context) error
	SaveMap(ctx context.Context, record model.MapRecord) error
	GetMap(ctx context.Context, id string) (model.MapRecord, bool, error)
	SaveRun(ctx context.Context, record model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs newest first; limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveFold(ctx context.Context, record model.FoldRecord) error
	GetFold(ctx context.Context, sequence, tempKey string) (model.FoldRecord, bool, error)
	SaveConformations(ctx context.Context, set model.ConformationSet) error
	GetConformations(ctx context.Context, length int) (model.ConformationSet, bool, error)
	SaveEnergies(ctx context.Context, record model.EnergyTableRecord) error
	GetEnergies(ctx context.Context, name string) (model.EnergyTableRecord, bool, error)
}
