package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o600))
	return dir
}

func TestCrawlCmd_Use(t *testing.T) {
	assert.Equal(t, "crawl <root>", crawlCmd.Use)
}

func TestCrawlCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "crawl")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCrawlCmd_Flags(t *testing.T) {
	for _, name := range []string{"json", "watch", "every"} {
		assert.NotNil(t, crawlCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "w", crawlCmd.Flags().Lookup("watch").Shorthand)
}

func TestCrawlCmd_Remote(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "crawl", "https://school.example/plan/index.html")

	require.NoError(t, err)
	assert.Equal(t, []domain.PageRef{"https://school.example/plan/index.html"}, ts.crawl.crawled())
	assert.Contains(t, out, "Crawled https://school.example/plan/index.html")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "12 (0 failed, 0 unrecognized)")
	assert.Contains(t, out, "Lessons:  42")
	assert.Contains(t, out, "3s")
}

func TestCrawlCmd_LocalDirectory(t *testing.T) {
	ts := setupTestServices(t)
	dir := writeExport(t)

	_, err := executeCommand(t, "crawl", dir)

	require.NoError(t, err)
	assert.Equal(t, []domain.PageRef{domain.PageRef(filepath.Join(dir, "index.html"))}, ts.crawl.crawled())
}

func TestCrawlCmd_LocalMissing(t *testing.T) {
	ts := setupTestServices(t)

	_, err := executeCommand(t, "crawl", filepath.Join(t.TempDir(), "missing.html"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid root")
	assert.Empty(t, ts.crawl.crawled())
}

func TestCrawlCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "crawl", "--json", "https://school.example/plan/index.html")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "run-1"`)
	assert.Contains(t, out, `"lessons": 42`)
}

func TestCrawlCmd_Failure(t *testing.T) {
	ts := setupTestServices(t)
	ts.crawl.err = errBoom

	_, err := executeCommand(t, "crawl", "https://school.example/plan/index.html")

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "crawl failed")
}

func TestCrawlCmd_Watch(t *testing.T) {
	ts := setupTestServices(t)
	ts.watcher.changes = 2
	dir := writeExport(t)

	out, err := executeCommand(t, "crawl", "--watch", dir)

	require.NoError(t, err)
	assert.Equal(t, dir, ts.watcher.dir)
	// initial crawl plus one per change
	assert.Len(t, ts.crawl.crawled(), 3)
	assert.Contains(t, out, "Watching "+dir)
}

func TestCrawlCmd_WatchKeepsGoingOnFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.watcher.changes = 1
	ts.crawl.err = errBoom

	out, err := executeCommand(t, "crawl", "--watch", writeExport(t))

	require.NoError(t, err)
	assert.Len(t, ts.crawl.crawled(), 2)
	assert.Contains(t, out, "Crawl failed: boom")
}

func TestCrawlCmd_WatchErrors(t *testing.T) {
	t.Run("remote root", func(t *testing.T) {
		setupTestServices(t)

		_, err := executeCommand(t, "crawl", "--watch", "https://school.example/plan/index.html")

		assert.EqualError(t, err, "--watch needs a local export")
	})

	t.Run("watcher not configured", func(t *testing.T) {
		ts := setupTestServices(t)
		SetServices(Services{Crawl: ts.crawl})

		_, err := executeCommand(t, "crawl", "--watch", writeExport(t))

		assert.EqualError(t, err, "watcher not configured")
	})

	t.Run("watch fails", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.watcher.err = errBoom

		_, err := executeCommand(t, "crawl", "--watch", writeExport(t))

		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, ts.crawl.crawled())
	})
}

func TestCrawlCmd_Every(t *testing.T) {
	ts := setupTestServices(t)
	start := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	ts.scheduler.results = []domain.RecrawlAttempt{
		{Lessons: 42, Started: start, Ended: start.Add(2 * time.Second)},
		{Err: "boom", Started: start.Add(time.Hour), Ended: start.Add(time.Hour)},
	}

	out, err := executeCommand(t, "crawl", "--every", "1h", "https://school.example/plan/index.html")

	require.NoError(t, err)
	assert.Equal(t, time.Hour, ts.scheduler.interval)
	assert.Equal(t, domain.PageRef("https://school.example/plan/index.html"), ts.scheduler.root)
	assert.True(t, ts.scheduler.stopped)
	assert.Contains(t, out, "[08:00:00] crawled 42 lessons in 2s")
	assert.Contains(t, out, "[09:00:00] crawl failed: boom")
}

func TestCrawlCmd_EverySchedulerNotConfigured(t *testing.T) {
	ts := setupTestServices(t)
	SetServices(Services{Crawl: ts.crawl})

	_, err := executeCommand(t, "crawl", "--every", "1h", "https://school.example/")

	assert.EqualError(t, err, "scheduler not configured")
}

func TestCrawlCmd_WatchAndEveryExclusive(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "crawl", "--watch", "--every", "1h", writeExport(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestResolveRoot(t *testing.T) {
	dir := writeExport(t)
	file := filepath.Join(dir, "index.html")

	tests := []struct {
		name string
		arg  string
		want domain.PageRef
	}{
		{"url", "https://school.example/plan/", "https://school.example/plan/"},
		{"directory", dir, domain.PageRef(file)},
		{"file", file, domain.PageRef(file)},
		{"file prefix", "file://" + file, domain.PageRef(file)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveRoot(tt.arg)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
