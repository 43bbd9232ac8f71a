package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/views/registers"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/views/week"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// runID selects the run to browse; driving.LatestRun by default.
	runID string

	styles *styles.Styles
	keymap *keymap.KeyMap

	registersView *registers.View
	weekView      *week.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	// result is the loaded run.
	result *domain.CrawlResult

	// err holds the last error that occurred.
	err error

	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application browsing the given run.
func NewApp(ports *Ports, runID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if runID == "" {
		runID = driving.LatestRun
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		runID:         runID,
		styles:        s,
		keymap:        km,
		registersView: registers.NewView(s),
		weekView:      week.NewView(s),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewRegisters,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("timetable"),
		a.loadTimetable(),
	)
}

func (a *App) loadTimetable() tea.Cmd {
	ctx, svc, runID := a.ctx, a.ports.Timetable, a.runID
	return func() tea.Msg {
		result, err := svc.Get(ctx, runID)
		return messages.TimetableLoaded{Result: result, Err: err}
	}
}

func (a *App) loadLessons(register string) tea.Cmd {
	ctx, svc, runID := a.ctx, a.ports.Timetable, a.runID
	return func() tea.Msg {
		lessons, err := svc.Lessons(ctx, runID, driving.LessonFilter{Register: register})
		return messages.LessonsLoaded{Register: register, Lessons: lessons, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.TimetableLoaded:
		if msg.Err != nil {
			return a, a.fail(msg.Err)
		}
		a.err = nil
		a.result = msg.Result
		// Pin the run so reloads and lesson queries agree.
		a.runID = msg.Result.Run.ID
		a.registersView.SetResult(msg.Result)
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		a.statusBar.SetCount(a.registersView.Count(), "registers")
		return a, nil

	case messages.RegisterSelected:
		a.statusBar.SetState(status.StateLoading)
		return a, a.loadLessons(msg.Register.Name)

	case messages.LessonsLoaded:
		if msg.Err != nil {
			return a, a.fail(msg.Err)
		}
		a.err = nil
		a.weekView.SetLessons(msg.Register, msg.Lessons)
		a.currentView = messages.ViewWeek
		a.statusBar.SetState(status.StateWeek)
		a.statusBar.SetMessage(msg.Register)
		a.statusBar.SetCount(len(msg.Lessons), "lessons")
		return a, nil

	case messages.ViewChanged:
		a.setView(msg.View)
		return a, nil

	case messages.ErrorOccurred:
		return a, a.fail(msg.Err)

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewRegisters:
		a.registersView, cmd = a.registersView.Update(msg)
	case messages.ViewWeek:
		a.weekView, cmd = a.weekView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	k := msg.String()

	switch {
	case k == "ctrl+c":
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help) && a.currentView != messages.ViewHelp:
		a.previousView = a.currentView
		a.setView(messages.ViewHelp)
		return a, nil
	case keymap.Matches(k, a.keymap.Reload):
		a.statusBar.SetState(status.StateLoading)
		a.setView(messages.ViewRegisters)
		return a, a.loadTimetable()
	}

	switch a.currentView {
	case messages.ViewHelp:
		switch {
		case keymap.Matches(k, a.keymap.Back), keymap.Matches(k, a.keymap.Help):
			a.setView(a.previousView)
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		}
		return a, nil
	case messages.ViewWeek:
		a.weekView, cmd = a.weekView.Update(msg)
	case messages.ViewRegisters:
		if a.result == nil {
			if keymap.Matches(k, a.keymap.Quit) {
				return a, tea.Quit
			}
			return a, nil
		}
		a.registersView, cmd = a.registersView.Update(msg)
	}
	return a, cmd
}

func (a *App) setView(v messages.ViewType) {
	a.currentView = v
	switch v {
	case messages.ViewRegisters:
		if a.err != nil {
			return
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		a.statusBar.SetCount(a.registersView.Count(), "registers")
	case messages.ViewWeek:
		a.statusBar.SetState(status.StateWeek)
		a.statusBar.SetMessage(a.weekView.Register())
		a.statusBar.SetCount(a.weekView.Count(), "lessons")
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	}
}

func (a *App) fail(err error) tea.Cmd {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewWeek:
		body = a.weekView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		if a.result == nil {
			body = a.styles.Title.Render("Timetable") + "\n\n"
			if a.err == nil {
				body += a.styles.Muted.Render("Loading run " + a.runID + "...")
			}
		} else {
			body = a.registersView.View()
		}
	}

	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Help.Render(fmt.Sprintf("  %-10s %s", h.Key, h.Desc)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Result returns the loaded run, or nil before loading.
func (a *App) Result() *domain.CrawlResult {
	return a.result
}

// RunID returns the run being browsed.
func (a *App) RunID() string {
	return a.runID
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.registersView.SetDimensions(width, height)
	a.weekView.SetDimensions(width, height-3)
}
