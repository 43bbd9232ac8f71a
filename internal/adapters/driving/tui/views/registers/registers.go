// Package registers provides the register list view of the timetable browser.
package registers

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// View lists the registers of a crawled timetable.
type View struct {
	styles    *styles.Styles
	list      *list.List
	registers []domain.Register
	run       domain.CrawlRun
	generated string
	width     int
	height    int
}

// NewView creates a new register list view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		list:   list.New(s, "Registers"),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult shows the registers of a run.
func (v *View) SetResult(result *domain.CrawlResult) {
	v.run = result.Run
	tt := result.Timetable

	v.generated = ""
	if !tt.GeneratedOn.IsZero() {
		v.generated = tt.GeneratedOn.Format("2006-01-02")
	}

	counts := make(map[int]int, len(tt.Registers))
	for _, l := range tt.Lessons {
		counts[l.RegisterID]++
	}

	v.registers = tt.Registers
	items := make([]list.Item, len(tt.Registers))
	for i, r := range tt.Registers {
		items[i] = list.Item{
			Title:  r.Name,
			Detail: fmt.Sprintf("%d lessons", counts[r.ID]),
		}
	}
	v.list.SetItems(items)
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "enter":
		register, ok := v.SelectedRegister()
		if !ok {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.RegisterSelected{Register: register}
		}
	case "q":
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// View renders the register list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Timetable"))
	b.WriteString("\n")

	var info []string
	if v.run.Root != "" {
		info = append(info, v.run.Root.String())
	}
	if v.generated != "" {
		info = append(info, "generated "+v.generated)
	}
	if !v.run.StartedAt.IsZero() {
		info = append(info, "crawled "+v.run.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	b.WriteString(v.styles.Muted.Render(strings.Join(info, " · ")))
	b.WriteString("\n\n")

	b.WriteString(v.list.View())
	return b.String()
}

// SelectedRegister returns the highlighted register.
func (v *View) SelectedRegister() (domain.Register, bool) {
	i := v.list.Selected()
	if i < 0 || i >= len(v.registers) {
		return domain.Register{}, false
	}
	return v.registers[i], true
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// title, info line and status bar
	v.list.SetDimensions(width, height-4)
}

// Count returns the number of registers shown.
func (v *View) Count() int {
	return len(v.registers)
}
