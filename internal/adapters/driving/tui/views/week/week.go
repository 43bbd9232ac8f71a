// Package week provides the week grid view of one register.
package week

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// View shows the lessons of one register as a week grid.
type View struct {
	styles   *styles.Styles
	register string
	lessons  []domain.LessonView
	grid     Grid
	day      int
	width    int
	height   int
}

// NewView creates a new week view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		grid:   BuildGrid(nil),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetLessons shows the lessons of a register.
func (v *View) SetLessons(register string, lessons []domain.LessonView) {
	v.register = register
	v.lessons = lessons
	v.grid = BuildGrid(lessons)
	v.day = 0
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "left", "h":
		if v.day > 0 {
			v.day--
		}
	case "right", "l":
		if v.day < len(v.grid.Days)-1 {
			v.day++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewRegisters}
		}
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

// View renders the week grid.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.register))
	b.WriteString("\n\n")

	if len(v.lessons) == 0 {
		b.WriteString(v.styles.Muted.Render("No lessons"))
		return b.String()
	}

	b.WriteString(v.renderTable())
	return b.String()
}

func (v *View) renderTable() string {
	headers := make([]string, 0, len(v.grid.Days)+1)
	headers = append(headers, "")
	for _, d := range v.grid.Days {
		headers = append(headers, d.String())
	}

	rows := make([][]string, len(v.grid.Slots))
	for i, slot := range v.grid.Slots {
		row := make([]string, 0, len(v.grid.Days)+1)
		row = append(row, slotLabel(slot))
		for _, d := range v.grid.Days {
			row = append(row, v.renderCell(v.grid.Cell(i, d)))
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.styles.GridBorder).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow && col == v.day+1:
				return v.styles.Selected.Padding(0, 1)
			case row == table.HeaderRow:
				return v.styles.DayHeader
			case col == 0:
				return v.styles.TimeColumn
			default:
				return v.styles.Cell
			}
		})
	if v.width > 0 {
		t = t.Width(v.width)
	}
	return t.String()
}

func (v *View) renderCell(lessons []domain.LessonView) string {
	parts := make([]string, 0, len(lessons))
	for _, l := range lessons {
		lines := []string{l.Subject}
		details := slices.Clone(l.Teachers)
		if l.Classroom != "" {
			details = append(details, l.Classroom)
		}
		if len(details) > 0 {
			lines = append(lines, strings.Join(details, " "))
		}
		if l.Team != "" {
			lines = append(lines, v.styles.Team.Render(l.Team))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

func slotLabel(s Slot) string {
	span := fmt.Sprintf("%d:%02d-%d:%02d", s.Start.Hour, s.Start.Minute, s.End.Hour, s.End.Minute)
	if s.Number == nil {
		return span
	}
	return fmt.Sprintf("%d. %s", *s.Number, span)
}

// Day returns the highlighted weekday.
func (v *View) Day() domain.Weekday {
	return v.grid.Days[v.day]
}

// Register returns the register shown.
func (v *View) Register() string {
	return v.register
}

// Count returns the number of lessons shown.
func (v *View) Count() int {
	return len(v.lessons)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
