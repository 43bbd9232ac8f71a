// Package config holds helpers shared by the ConfigStore adapters.
package config

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// AsString reads v as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsInt reads v as an int. TOML decodes integers as int64, environment
// overrides arrive as strings, and floats are accepted when integral.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// AsFloat reads v as a float64, widening integers.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// AsDuration reads v as a time.Duration written like "45s" or "24h".
func AsDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(d))
		return parsed, err == nil
	}
	return 0, false
}
