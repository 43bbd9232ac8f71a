// Package tui provides an interactive terminal browser for crawled timetables.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Timetable queries stored crawl runs.
	Timetable driving.TimetableService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(timetable driving.TimetableService) *Ports {
	return &Ports{Timetable: timetable}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Timetable == nil {
		return ErrMissingTimetableService
	}
	return nil
}
