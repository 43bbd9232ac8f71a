package driving

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// Scheduler re-crawls a timetable export periodically.
type Scheduler interface {
	// Start crawls whenever the job is due. It blocks until ctx ends or
	// Stop is called.
	Start(ctx context.Context) error

	// Stop ends Start and waits for an in-flight crawl.
	Stop() error

	// OnResult registers a callback invoked after every attempt.
	OnResult(fn func(domain.RecrawlAttempt))
}
