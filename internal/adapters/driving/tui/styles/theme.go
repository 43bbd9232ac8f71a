// Package styles holds the colours and lipgloss styles of the timetable
// browser.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme assigns colours to the roles they play in the week grid. Each colour
// has a light and a dark variant and lipgloss picks one from the terminal
// background.
type Theme struct {
	Accent  lipgloss.AdaptiveColor // titles, selected day and register
	Weekday lipgloss.AdaptiveColor // grid headers
	Text    lipgloss.AdaptiveColor
	Dim     lipgloss.AdaptiveColor // hours, rooms, hints
	Team    lipgloss.AdaptiveColor // lessons for part of a register
	Alert   lipgloss.AdaptiveColor
	Rule    lipgloss.AdaptiveColor // grid lines
	Bar     lipgloss.AdaptiveColor // status bar background
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme is a violet and cyan palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  adaptive("#6D28D9", "#7C3AED"),
		Weekday: adaptive("#0E7490", "#06B6D4"),
		Text:    adaptive("#1E1E2E", "#CDD6F4"),
		Dim:     adaptive("#7C7F93", "#6C7086"),
		Team:    adaptive("#B45309", "#F9E2AF"),
		Alert:   adaptive("#D20F39", "#F38BA8"),
		Rule:    adaptive("#BCC0CC", "#45475A"),
		Bar:     adaptive("#E6E9EF", "#181825"),
	}
}

// Styles are the rendered forms of a Theme used by the views.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style

	DayHeader  lipgloss.Style
	TimeColumn lipgloss.Style
	Cell       lipgloss.Style
	Team       lipgloss.Style
	GridBorder lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles derives styles from theme, or from DefaultTheme when theme is nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	padded := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return fg(c).Padding(0, 1)
	}

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Weekday).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:    fg(theme.Alert),

		DayHeader:  padded(theme.Weekday).Bold(true).Align(lipgloss.Center),
		TimeColumn: padded(theme.Dim),
		Cell:       padded(theme.Text),
		Team:       fg(theme.Team).Italic(true),
		GridBorder: fg(theme.Rule),

		StatusBar: padded(theme.Dim).Background(theme.Bar),
		Help:      fg(theme.Dim),
	}
}

func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
