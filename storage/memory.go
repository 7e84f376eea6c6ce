package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore keeps run history for the lifetime of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	generations map[string][]GenerationRecord
	champions   map[string]ChampionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.generations = make(map[string][]GenerationRecord)
	s.champions = make(map[string]ChampionRecord)
	return nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, rec GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	// Re-saving a generation replaces it.
	history := s.generations[rec.RunID]
	for i := range history {
		if history[i].Generation == rec.Generation {
			history[i] = rec
			return nil
		}
	}
	s.generations[rec.RunID] = append(history, rec)
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.generations[runID]
	out := make([]GenerationRecord, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, rec ChampionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.champions[rec.RunID] = rec
	return nil
}

func (s *MemoryStore) Champion(_ context.Context, runID string) (ChampionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.champions[runID]
	return rec, ok, nil
}
