package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

// Ensure TimetableService implements the interface.
var _ driving.TimetableService = (*TimetableService)(nil)

// TimetableService queries stored crawl runs.
type TimetableService struct {
	store driven.TimetableStore
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(store driven.TimetableStore) *TimetableService {
	return &TimetableService{store: store}
}

// ListRuns returns all runs, most recent first.
func (s *TimetableService) ListRuns(ctx context.Context) ([]domain.CrawlRun, error) {
	return s.store.ListRuns(ctx)
}

// Get returns a run and its timetable.
func (s *TimetableService) Get(ctx context.Context, runID string) (*domain.CrawlResult, error) {
	run, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	tt, err := s.store.GetTimetable(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("get timetable: %w", err)
	}
	return &domain.CrawlResult{Run: *run, Timetable: tt}, nil
}

// Lessons returns the lessons of a run matching the filter.
// A register filter naming no known register fails with ErrNotFound.
func (s *TimetableService) Lessons(
	ctx context.Context,
	runID string,
	filter driving.LessonFilter,
) ([]domain.LessonView, error) {
	result, err := s.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	tt := result.Timetable

	lessons := slices.Clone(tt.Lessons)
	if filter.Register != "" {
		register, ok := tt.RegisterByName(filter.Register)
		if !ok {
			return nil, fmt.Errorf("%w: register %q", domain.ErrNotFound, filter.Register)
		}
		lessons = tt.LessonsFor(register.ID)
	}
	domain.SortLessons(lessons)

	views := make([]domain.LessonView, 0, len(lessons))
	for _, l := range lessons {
		if filter.Weekday != nil && l.Weekday != *filter.Weekday {
			continue
		}
		v := tt.View(l)
		if filter.Teacher != "" && !slices.ContainsFunc(v.Teachers, func(name string) bool {
			return strings.EqualFold(name, filter.Teacher)
		}) {
			continue
		}
		if filter.Classroom != "" && !strings.EqualFold(v.Classroom, filter.Classroom) {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// Remove deletes a run.
func (s *TimetableService) Remove(ctx context.Context, runID string) error {
	run, err := s.resolveRun(ctx, runID)
	if err != nil {
		return err
	}
	return s.store.DeleteRun(ctx, run.ID)
}

// resolveRun looks up a run by ID, or the latest run.
func (s *TimetableService) resolveRun(ctx context.Context, runID string) (*domain.CrawlRun, error) {
	if runID == "" || runID == driving.LatestRun {
		run, err := s.store.LatestRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("latest run: %w", err)
		}
		return run, nil
	}

	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}
