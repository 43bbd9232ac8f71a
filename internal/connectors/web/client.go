package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxPageSize bounds a single page body.
	MaxPageSize = 8 << 20
)

// Verify interface compliance.
var _ driven.PageFetcher = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// Timeout bounds a single request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// RetryDelay is the initial backoff. Zero uses RetryDelay.
	RetryDelay time.Duration
}

// Client fetches pages over HTTP.
type Client struct {
	http        *http.Client
	userAgent   string
	retryDelay  time.Duration
	rateLimiter *RateLimiter
}

// NewClient creates a new HTTP page client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = RetryDelay
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		userAgent:   cfg.UserAgent,
		retryDelay:  delay,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// Fetch downloads a page, retrying transient failures.
func (c *Client) Fetch(ctx context.Context, ref domain.PageRef) ([]byte, error) {
	if !ref.IsRemote() {
		return nil, &driven.FetchError{Ref: ref, Err: ErrLocalReference}
	}

	delay := c.retryDelay
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying %s (attempt %d): %v", ref, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, &driven.FetchError{Ref: ref, Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retry, err := c.fetchOnce(ctx, ref)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce performs a single request. The boolean reports whether the
// failure is transient.
func (c *Client) fetchOnce(ctx context.Context, ref domain.PageRef) ([]byte, bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, false, &driven.FetchError{Ref: ref, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.String(), http.NoBody)
	if err != nil {
		return nil, false, &driven.FetchError{Ref: ref, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		retry := ctx.Err() == nil
		return nil, retry, &driven.FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchErr := &driven.FetchError{Ref: ref, StatusCode: resp.StatusCode}
		if rlErr := c.rateLimiter.CheckRateLimit(resp); rlErr != nil {
			fetchErr.Err = rlErr
		}
		return nil, isRetryable(resp.StatusCode), fetchErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize+1))
	if err != nil {
		return nil, true, &driven.FetchError{Ref: ref, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > MaxPageSize {
		return nil, false, &driven.FetchError{Ref: ref, Err: ErrPageTooLarge}
	}
	return body, false, nil
}
