package storage

import (
	"context"
	"sync"

	"latticegpm/internal/model"
)

type MemoryStore struct {
	mu            sync.RWMutex
	initialized   bool
	maps          map[string]model.MapRecord
	runs          map[string]model.RunRecord
	runOrder      []string
	folds         map[string]model.FoldRecord
	conformations map[int]model.ConformationSet
	energies      map[string]model.EnergyTableRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.maps = make(map[string]model.MapRecord)
	s.runs = make(map[string]model.RunRecord)
	s.runOrder = nil
	s.folds = make(map[string]model.FoldRecord)
	s.conformations = make(map[int]model.ConformationSet)
	s.energies = make(map[string]model.EnergyTableRecord)
	return nil
}

func (s *MemoryStore) SaveMap(_ context.Context, record model.MapRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maps[record.ID] = record
	return nil
}

func (s *MemoryStore) GetMap(_ context.Context, id string) (model.MapRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.maps[id]
	return record, ok, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[record.ID]; !exists {
		s.runOrder = append(s.runOrder, record.ID)
	}
	s.runs[record.ID] = record
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.runs[id]
	return record, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Insertion order doubles as creation order; newest first.
	out := make([]model.RunRecord, 0, len(s.runOrder))
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.runOrder[i]])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func foldKey(sequence, tempKey string) string {
	return sequence + "@" + tempKey
}

func (s *MemoryStore) SaveFold(_ context.Context, record model.FoldRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.folds[foldKey(record.Sequence, record.TempKey)] = record
	return nil
}

func (s *MemoryStore) GetFold(_ context.Context, sequence, tempKey string) (model.FoldRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.folds[foldKey(sequence, tempKey)]
	return record, ok, nil
}

func (s *MemoryStore) SaveConformations(_ context.Context, set model.ConformationSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conformations[set.Length] = set
	return nil
}

func (s *MemoryStore) GetConformations(_ context.Context, length int) (model.ConformationSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.conformations[length]
	return set, ok, nil
}

func (s *MemoryStore) SaveEnergies(_ context.Context, record model.EnergyTableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.energies[record.Name] = record
	return nil
}

func (s *MemoryStore) GetEnergies(_ context.Context, name string) (model.EnergyTableRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.energies[name]
	return record, ok, nil
}
