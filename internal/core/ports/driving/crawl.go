package driving

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// CrawlService crawls timetable exports into timetables.
type CrawlService interface {
	// Crawl visits every page reachable from root, normalises the result and
	// stores it as a new run.
	Crawl(ctx context.Context, root domain.PageRef) (*domain.CrawlResult, error)

	// Status returns the progress of the running crawl, if any.
	Status(ctx context.Context) (*CrawlStatus, error)
}

// CrawlStatus represents the current state of a crawl.
type CrawlStatus struct {
	// Root is the page the crawl started from.
	Root domain.PageRef

	// Running indicates if a crawl is currently in progress.
	Running bool

	// PagesVisited is the count of pages processed so far.
	PagesVisited int

	// PagesQueued is the count of pages scheduled but not yet processed.
	PagesQueued int

	// PagesFailed is the count of pages whose extraction was aborted.
	PagesFailed int

	// PagesUnrecognized is the count of pages matching no known layout.
	PagesUnrecognized int
}
