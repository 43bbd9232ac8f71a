package driving

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// LatestRun selects the most recent run wherever a run ID is accepted.
const LatestRun = "latest"

// TimetableService queries stored crawl runs.
type TimetableService interface {
	// ListRuns returns all runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.CrawlRun, error)

	// Get returns a run and its timetable. runID may be LatestRun.
	Get(ctx context.Context, runID string) (*domain.CrawlResult, error)

	// Lessons returns resolved lessons of a run matching the filter,
	// sorted by weekday, start time and lesson number.
	Lessons(ctx context.Context, runID string, filter LessonFilter) ([]domain.LessonView, error)

	// Remove deletes a run.
	Remove(ctx context.Context, runID string) error
}

// LessonFilter narrows a lesson listing. Empty fields match everything.
type LessonFilter struct {
	// Register matches the register name, case-insensitively.
	Register string

	// Teacher matches any teacher name, case-insensitively.
	Teacher string

	// Classroom matches the classroom name, case-insensitively.
	Classroom string

	// Weekday restricts to one day when set.
	Weekday *domain.Weekday
}
