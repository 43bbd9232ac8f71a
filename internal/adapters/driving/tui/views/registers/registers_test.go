package registers

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

func testResult() *domain.CrawlResult {
	return &domain.CrawlResult{
		Run: domain.CrawlRun{
			ID:        "run-1",
			Root:      "/srv/plan/index.html",
			StartedAt: time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC),
		},
		Timetable: &domain.Timetable{
			Registers: []domain.Register{
				{ID: 1, Name: "1A"},
				{ID: 2, Name: "2B"},
			},
			Lessons: []domain.Lesson{
				{ID: 1, RegisterID: 1},
				{ID: 2, RegisterID: 1},
				{ID: 3, RegisterID: 2},
			},
		},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Init())
	assert.Zero(t, v.Count())

	_, ok := v.SelectedRegister()
	assert.False(t, ok)
}

func TestView_SetResult(t *testing.T) {
	v := NewView(nil)
	v.SetResult(testResult())

	assert.Equal(t, 2, v.Count())

	out := v.View()
	assert.Contains(t, out, "/srv/plan/index.html")
	assert.Contains(t, out, "2 lessons")
	assert.Contains(t, out, "1 lessons")
	assert.NotContains(t, out, "generated")
}

func TestView_SelectRegister(t *testing.T) {
	v := NewView(nil)
	v.SetResult(testResult())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.RegisterSelected)
	require.True(t, ok)
	assert.Equal(t, "2B", msg.Register.Name)
}

func TestView_EnterWithoutRegisters(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_IgnoresNonKeyMessages(t *testing.T) {
	v := NewView(nil)

	updated, cmd := v.Update(tea.WindowSizeMsg{Width: 10, Height: 10})

	assert.Same(t, v, updated)
	assert.Nil(t, cmd)
}
