package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// CrawlSettings holds crawl behaviour configuration.
type CrawlSettings struct {
	// Workers is the number of pages fetched and parsed concurrently.
	Workers int

	// RequestsPerSecond throttles remote fetches. Zero disables throttling.
	RequestsPerSecond float64

	// UserAgent is sent with remote requests.
	UserAgent string

	// Timeout bounds a single remote fetch.
	Timeout time.Duration

	// Interval is the period of scheduled re-crawls.
	Interval time.Duration
}

// DefaultCrawlSettings returns the settings used when nothing is configured.
func DefaultCrawlSettings() CrawlSettings {
	return CrawlSettings{
		Workers:           4,
		RequestsPerSecond: 5,
		UserAgent:         "timetable-cli",
		Timeout:           30 * time.Second,
		Interval:          6 * time.Hour,
	}
}

// Validate checks the settings are usable.
func (s CrawlSettings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidInput)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	if s.Interval < time.Minute {
		return fmt.Errorf("%w: interval must be at least one minute", ErrInvalidInput)
	}
	return nil
}
