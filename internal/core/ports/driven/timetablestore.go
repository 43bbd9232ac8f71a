package driven

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// TimetableStore persists crawl runs and their timetables.
type TimetableStore interface {
	// SaveRun stores a run together with its timetable.
	SaveRun(ctx context.Context, run domain.CrawlRun, tt *domain.Timetable) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*domain.CrawlRun, error)

	// LatestRun returns the most recently finished run.
	// Returns domain.ErrNotFound if no run exists.
	LatestRun(ctx context.Context) (*domain.CrawlRun, error)

	// ListRuns returns all runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.CrawlRun, error)

	// GetTimetable retrieves the timetable of a run.
	GetTimetable(ctx context.Context, runID string) (*domain.Timetable, error)

	// DeleteRun removes a run and its timetable.
	DeleteRun(ctx context.Context, id string) error
}
