package tui

import "errors"

// ErrMissingTimetableService is returned when the timetable service is not provided.
var ErrMissingTimetableService = errors.New("tui: timetable service is required")
