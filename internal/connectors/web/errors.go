package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

// Web connector errors.
var (
	// ErrLocalReference indicates a local reference was given to the web client.
	ErrLocalReference = errors.New("web: not an http(s) reference")

	// ErrPageTooLarge indicates a response body exceeded MaxPageSize.
	ErrPageTooLarge = errors.New("web: page too large")
)

// RateLimitError indicates the server asked the client to slow down.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("web: rate limited, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// IsNotFound checks if the error indicates the page does not exist.
func IsNotFound(err error) bool {
	var fetchErr *driven.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// isRetryable reports whether a response status is worth retrying.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
