package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

// mockCrawlService implements driving.CrawlService for CLI tests.
type mockCrawlService struct {
	mu     sync.Mutex
	result *domain.CrawlResult
	err    error
	roots  []domain.PageRef
}

func (m *mockCrawlService) Crawl(_ context.Context, root domain.PageRef) (*domain.CrawlResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = append(m.roots, root)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockCrawlService) Status(_ context.Context) (*driving.CrawlStatus, error) {
	return &driving.CrawlStatus{}, nil
}

func (m *mockCrawlService) crawled() []domain.PageRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PageRef(nil), m.roots...)
}

// mockTimetableService implements driving.TimetableService for CLI tests.
type mockTimetableService struct {
	runs    []domain.CrawlRun
	result  *domain.CrawlResult
	lessons []domain.LessonView
	err     error

	gotRunID  string
	gotFilter driving.LessonFilter
	removed   []string
	missing   map[string]bool
}

func (m *mockTimetableService) ListRuns(_ context.Context) ([]domain.CrawlRun, error) {
	return m.runs, m.err
}

func (m *mockTimetableService) Get(_ context.Context, runID string) (*domain.CrawlResult, error) {
	m.gotRunID = runID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockTimetableService) Lessons(
	_ context.Context, runID string, filter driving.LessonFilter,
) ([]domain.LessonView, error) {
	m.gotRunID = runID
	m.gotFilter = filter
	return m.lessons, m.err
}

func (m *mockTimetableService) Remove(_ context.Context, runID string) error {
	if m.err != nil {
		return m.err
	}
	if m.missing[runID] {
		return domain.ErrNotFound
	}
	m.removed = append(m.removed, runID)
	return nil
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings domain.CrawlSettings
	err      error
	set      map[string]string
	reset    bool
}

func (m *mockSettingsService) Get() (*domain.CrawlSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.CrawlSettings) error {
	m.settings = *settings
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Reset() error {
	m.reset = true
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.CrawlSettings {
	return domain.DefaultCrawlSettings()
}

// mockWatcher implements driven.ChangeWatcher with a scripted number of changes.
type mockWatcher struct {
	changes int
	err     error
	dir     string
}

func (m *mockWatcher) Watch(_ context.Context, dir string) (<-chan struct{}, error) {
	m.dir = dir
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan struct{}, m.changes)
	for range m.changes {
		ch <- struct{}{}
	}
	close(ch)
	return ch, nil
}

// mockScheduler implements driving.Scheduler, reporting scripted results.
type mockScheduler struct {
	root     domain.PageRef
	interval time.Duration
	results  []domain.RecrawlAttempt
	onResult func(domain.RecrawlAttempt)
	stopped  bool
}

func (m *mockScheduler) Start(_ context.Context) error {
	for _, r := range m.results {
		m.onResult(r)
	}
	return context.Canceled
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockScheduler) OnResult(fn func(domain.RecrawlAttempt)) {
	m.onResult = fn
}

type testServices struct {
	crawl     *mockCrawlService
	timetable *mockTimetableService
	settings  *mockSettingsService
	watcher   *mockWatcher
	scheduler *mockScheduler
}

func testResult() *domain.CrawlResult {
	return &domain.CrawlResult{
		Run: domain.CrawlRun{
			ID:         "run-1",
			Root:       "https://school.example/plan/index.html",
			StartedAt:  time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 9, 2, 8, 0, 3, 0, time.UTC),
			Pages:      12,
			Lessons:    42,
		},
		Timetable: &domain.Timetable{
			GeneratedOn: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
			Registers: []domain.Register{
				{ID: 1, Name: "1A"},
				{ID: 2, Name: "2B"},
			},
		},
	}
}

// setupTestServices installs mock services and restores an empty set after the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	result := testResult()
	ts := &testServices{
		crawl:     &mockCrawlService{result: result},
		timetable: &mockTimetableService{runs: []domain.CrawlRun{result.Run}, result: result},
		settings:  &mockSettingsService{settings: domain.DefaultCrawlSettings()},
		watcher:   &mockWatcher{},
		scheduler: &mockScheduler{},
	}
	SetServices(Services{
		Crawl:     ts.crawl,
		Timetable: ts.timetable,
		Settings:  ts.settings,
		Watcher:   ts.watcher,
		NewScheduler: func(root domain.PageRef, interval time.Duration) driving.Scheduler {
			ts.scheduler.root = root
			ts.scheduler.interval = interval
			return ts.scheduler
		},
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return ts
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps parsed
// values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "timetable", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"crawl", "runs", "lessons", "settings", "browse", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")

	if assert.NotNil(t, flag) {
		assert.Equal(t, "v", flag.Shorthand)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}

func TestCommands_ErrorWithoutServices(t *testing.T) {
	SetServices(Services{})

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"crawl", "https://school.example/"}, "crawl service not configured"},
		{[]string{"runs"}, "timetable service not configured"},
		{[]string{"runs", "show", "latest"}, "timetable service not configured"},
		{[]string{"runs", "rm", "run-1"}, "timetable service not configured"},
		{[]string{"lessons"}, "timetable service not configured"},
		{[]string{"settings"}, "settings service not configured"},
		{[]string{"settings", "set", "workers", "2"}, "settings service not configured"},
		{[]string{"settings", "reset"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0]+" "+tt.args[len(tt.args)-1], func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)

			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}

func TestOutputJSON_Error(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := outputJSON(cmd, make(chan int))

	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

var errBoom = errors.New("boom")
