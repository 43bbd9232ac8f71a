package driven

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// Enqueue schedules a page for a later visit. Re-enqueueing a reference that
// was already scheduled is tolerated by the caller providing it.
type Enqueue func(ref domain.PageRef)

// PageParser extracts entities and lessons from the pages of one family of
// timetable exports.
type PageParser interface {
	// Process handles one fetched page: navigation pages resolve the entities
	// they list and enqueue further pages, timetable pages add lessons to ds.
	// Returns the layout the page was recognised as. An error aborts this
	// page only.
	Process(ctx context.Context, page domain.Page, ds *domain.Dataset, enqueue Enqueue) (domain.Dialect, error)

	// Normalise runs once after every page has been processed.
	Normalise(ds *domain.Dataset)
}
