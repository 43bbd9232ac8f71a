package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a day of the school week, starting at Monday = 0.
type Weekday int

// Weekdays in column order of a timetable grid.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IsValid returns true if the weekday is Monday..Sunday.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// String returns the English day name.
func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Short returns the three-letter day name.
func (w Weekday) Short() string {
	return w.String()[:3]
}

// ParseWeekday parses an English day name or its prefix of at least three
// letters, case-insensitively, e.g. "mon" or "Wednesday".
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(strings.ToLower(name), s) {
				return Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay returns the time of day, validating its range.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: time %d:%02d out of range", ErrInvalidInput, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses "H:MM" or "HH:MM", tolerating surrounding spaces.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: time %q", ErrInvalidInput, s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q", ErrInvalidInput, s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q", ErrInvalidInput, s)
	}
	return NewTimeOfDay(hour, minute)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

// String formats as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
