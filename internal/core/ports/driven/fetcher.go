package driven

import (
	"context"
	"fmt"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// PageFetcher fetches the raw bytes of one page of a timetable export.
// Each connector type (web, filesystem) implements this interface.
type PageFetcher interface {
	// Fetch returns the page body. Errors are returned as-is to the crawl,
	// which aborts; retry policy, if any, belongs to the implementation.
	Fetch(ctx context.Context, ref domain.PageRef) ([]byte, error)
}

// FetchError describes a failed fetch.
type FetchError struct {
	Ref        domain.PageRef
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Ref, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
