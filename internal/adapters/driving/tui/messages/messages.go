// Package messages defines Bubbletea message types for the timetable browser.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRegisters lists the registers of the loaded run.
	ViewRegisters ViewType = iota
	// ViewWeek shows the week grid of one register.
	ViewWeek
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRegisters:
		return "registers"
	case ViewWeek:
		return "week"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// TimetableLoaded carries a stored run and its timetable.
type TimetableLoaded struct {
	Result *domain.CrawlResult
	Err    error
}

// RegisterSelected is sent when a register is opened from the list.
type RegisterSelected struct {
	Register domain.Register
}

// LessonsLoaded carries the resolved lessons of one register.
type LessonsLoaded struct {
	Register string
	Lessons  []domain.LessonView
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
