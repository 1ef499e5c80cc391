package storage

import (
	"context"
	"testing"

	"latticegpm/internal/model"
)

func initMemory(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return store
}

func TestMemoryStoreMapRoundTrip(t *testing.T) {
	store := initMemory(t)
	ctx := context.Background()

	record := model.MapRecord{
		ID:            "map-1",
		Length:        2,
		Alphabet:      "HP",
		Endpoint1:     "HP",
		Endpoint2:     "PH",
		Temperature:   1.0,
		PhenotypeKind: "stability",
		Genotypes:     []string{"HP", "PP", "HH", "PH"},
		Phenotypes:    []float64{-1, 0, -2, -0.5},
	}
	if err := store.SaveMap(ctx, record); err != nil {
		t.Fatalf("save map: %v", err)
	}

	got, ok, err := store.GetMap(ctx, "map-1")
	if err != nil || !ok {
		t.Fatalf("get map: ok=%v err=%v", ok, err)
	}
	if got.Endpoint2 != "PH" || len(got.Genotypes) != 4 {
		t.Fatalf("unexpected record: %+v", got)
	}

	_, ok, err = store.GetMap(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("missing map: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	store := initMemory(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		err := store.SaveRun(ctx, model.RunRecord{ID: id, CreatedAtUTC: "2026-01-0" + id})
		if err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "c" || runs[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", runs)
	}

	runs, err = store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" {
		t.Fatalf("unexpected limited list: %+v", runs)
	}
}

func TestMemoryStoreFoldCache(t *testing.T) {
	store := initMemory(t)
	ctx := context.Background()

	record := model.FoldRecord{
		Sequence:     "HPHP",
		TempKey:      "1",
		Conformation: "URD",
		Stability:    -1.5,
		Folded:       true,
	}
	if err := store.SaveFold(ctx, record); err != nil {
		t.Fatalf("save fold: %v", err)
	}

	got, ok, err := store.GetFold(ctx, "HPHP", "1")
	if err != nil || !ok {
		t.Fatalf("get fold: ok=%v err=%v", ok, err)
	}
	if got.Stability != -1.5 || !got.Folded {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Same sequence at a different temperature is a different entry.
	_, ok, err = store.GetFold(ctx, "HPHP", "2")
	if err != nil || ok {
		t.Fatalf("different temp key should miss: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreConformationsAndEnergies(t *testing.T) {
	store := initMemory(t)
	ctx := context.Background()

	err := store.SaveConformations(ctx, model.ConformationSet{
		Length:        4,
		Conformations: []string{"UUU", "UUR", "URU", "URR", "URD"},
	})
	if err != nil {
		t.Fatalf("save conformations: %v", err)
	}
	set, ok, err := store.GetConformations(ctx, 4)
	if err != nil || !ok {
		t.Fatalf("get conformations: ok=%v err=%v", ok, err)
	}
	if len(set.Conformations) != 5 {
		t.Fatalf("unexpected set: %+v", set)
	}

	err = store.SaveEnergies(ctx, model.EnergyTableRecord{
		Name:     "hp",
		Energies: map[string]float64{"HH": -1},
	})
	if err != nil {
		t.Fatalf("save energies: %v", err)
	}
	table, ok, err := store.GetEnergies(ctx, "hp")
	if err != nil || !ok {
		t.Fatalf("get energies: ok=%v err=%v", ok, err)
	}
	if table.Energies["HH"] != -1 {
		t.Fatalf("unexpected table: %+v", table)
	}
}
