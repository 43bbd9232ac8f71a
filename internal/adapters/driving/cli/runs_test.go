package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

func TestRunsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(runsCmd.Commands()))
	for _, cmd := range runsCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "show", "rm"}, names)
	assert.Contains(t, runsRemoveCmd.Aliases, "remove")
}

func TestRunsCmd_List(t *testing.T) {
	setupTestServices(t)

	for _, args := range [][]string{{"runs"}, {"runs", "list"}} {
		out, err := executeCommand(t, args...)

		require.NoError(t, err)
		assert.Contains(t, out, "ID\tSTARTED\tPAGES\tFAILED\tLESSONS\tROOT")
		assert.Contains(t, out, "run-1\t")
		assert.Contains(t, out, "\t12\t0\t42\thttps://school.example/plan/index.html")
	}
}

func TestRunsCmd_ListEmpty(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.runs = nil

	out, err := executeCommand(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs yet")
}

func TestRunsCmd_ListJSON(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "runs", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "run-1"`)
	assert.Contains(t, out, `"root": "https://school.example/plan/index.html"`)
}

func TestRunsCmd_ListError(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.err = errBoom

	_, err := executeCommand(t, "runs")

	assert.ErrorIs(t, err, errBoom)
}

func TestRunsCmd_Show(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "runs", "show", "latest")

	require.NoError(t, err)
	assert.Equal(t, "latest", ts.timetable.gotRunID)
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "Generated:   2024-09-01")
	assert.Contains(t, out, "Registers:   2")
	assert.Contains(t, out, "1A, 2B")
}

func TestRunsCmd_ShowJSON(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "runs", "show", "run-1", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"run": {`)
	assert.Contains(t, out, `"timetable": {`)
}

func TestRunsCmd_ShowNotFound(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.err = domain.ErrNotFound

	_, err := executeCommand(t, "runs", "show", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunsCmd_Remove(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "runs", "rm", "run-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ts.timetable.removed)
	assert.Contains(t, out, "Removed run run-1")
}

func TestRunsCmd_RemoveNotFound(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.err = domain.ErrNotFound

	_, err := executeCommand(t, "runs", "rm", "nope")

	assert.EqualError(t, err, "run nope not found")
}

func TestRunsCmd_RemoveRequiresID(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "runs", "rm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestRunsCmd_RemoveSeveral(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.missing = map[string]bool{"gone": true}

	out, err := executeCommand(t, "runs", "rm", "run-1", "gone", "run-2")

	require.Error(t, err)
	assert.ErrorContains(t, err, "run gone not found")
	assert.Equal(t, []string{"run-1", "run-2"}, ts.timetable.removed)
	assert.Contains(t, out, "Removed run run-1")
	assert.Contains(t, out, "Removed run run-2")
}

func TestRunsCmd_RemoveStoreError(t *testing.T) {
	ts := setupTestServices(t)
	ts.timetable.err = errBoom

	_, err := executeCommand(t, "runs", "rm", "run-1")

	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "failed to remove run run-1")
}
