package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

// Ensure TimetableStore implements the interface.
var _ driven.TimetableStore = (*TimetableStore)(nil)

// TimetableStore is an in-memory implementation of driven.TimetableStore.
type TimetableStore struct {
	mu         sync.RWMutex
	runs       map[string]domain.CrawlRun
	timetables map[string]*domain.Timetable
}

// NewTimetableStore creates a new in-memory timetable store.
func NewTimetableStore() *TimetableStore {
	return &TimetableStore{
		runs:       make(map[string]domain.CrawlRun),
		timetables: make(map[string]*domain.Timetable),
	}
}

// SaveRun stores a run and its timetable.
func (s *TimetableStore) SaveRun(_ context.Context, run domain.CrawlRun, tt *domain.Timetable) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.timetables[run.ID] = tt
	return nil
}

// GetRun retrieves a run by ID.
func (s *TimetableStore) GetRun(_ context.Context, id string) (*domain.CrawlRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// LatestRun returns the most recently started run.
func (s *TimetableStore) LatestRun(ctx context.Context) (*domain.CrawlRun, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

// ListRuns returns all runs, most recent first.
func (s *TimetableStore) ListRuns(_ context.Context) ([]domain.CrawlRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.CrawlRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	slices.SortFunc(runs, func(a, b domain.CrawlRun) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return runs, nil
}

// GetTimetable retrieves the timetable of a run.
func (s *TimetableStore) GetTimetable(_ context.Context, runID string) (*domain.Timetable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tt, ok := s.timetables[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tt, nil
}

// DeleteRun removes a run and its timetable.
func (s *TimetableStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.runs, id)
	delete(s.timetables, id)
	return nil
}
