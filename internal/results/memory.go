package results

import (
	"context"
	"sort"
	"sync"

	"argus/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunSummary
	records     map[string][]model.SimilarityRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunSummary)
	s.records = make(map[string][]model.SimilarityRecord)
	return nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[summary.ID] = summary
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, id string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.runs[id]
	return summary, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunSummary, 0, len(s.runs))
	for _, summary := range s.runs {
		runs = append(runs, summary)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAtUTC != runs[j].StartedAtUTC {
			return runs[i].StartedAtUTC < runs[j].StartedAtUTC
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *MemoryStore) SaveRecords(_ context.Context, runID string, records []model.SimilarityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.SimilarityRecord, len(records))
	copy(copied, records)
	s.records[runID] = copied
	return nil
}

func (s *MemoryStore) GetRecords(_ context.Context, runID string) ([]model.SimilarityRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.SimilarityRecord, len(records))
	copy(copied, records)
	return copied, true, nil
}
