package driven

import "time"

// ConfigStore holds user configuration under dotted keys such as
// "crawl.workers". Typed lookups report false when the key is absent or its
// value cannot be read as the requested kind.
type ConfigStore interface {
	Lookup(key string) (any, bool)
	String(key string) (string, bool)
	Int(key string) (int, bool)
	Float(key string) (float64, bool)
	Duration(key string) (time.Duration, bool)

	// Set stores value under key and persists it before returning.
	Set(key string, value any) error

	// Unset removes keys in a single write. Missing keys are ignored.
	Unset(keys ...string) error

	// Keys lists the stored keys in sorted order.
	Keys() []string

	// Location describes where values are kept, for display.
	Location() string
}
