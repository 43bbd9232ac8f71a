package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

var (
	crawlJSON  bool
	crawlWatch bool
	crawlEvery time.Duration
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <root>",
	Short: "Crawl a timetable export",
	Long: `Crawls an Optivum timetable export starting from its index page and
stores the result as a new run.

The root is either an http(s) URL or a local path. A local directory is
crawled from its index.html.

With --watch, a local export is crawled again whenever its files change.
With --every, the root is crawled again at a fixed interval.`,
	Example: `  timetable crawl https://school.example/plan/index.html
  timetable crawl ./plan --watch
  timetable crawl https://school.example/plan/ --every 6h`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().BoolVar(&crawlJSON, "json", false, "output the run as JSON")
	crawlCmd.Flags().BoolVarP(&crawlWatch, "watch", "w", false, "re-crawl a local export when it changes")
	crawlCmd.Flags().DurationVar(&crawlEvery, "every", 0, "re-crawl at this interval, e.g. 6h")
	crawlCmd.MarkFlagsMutuallyExclusive("watch", "every")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if crawlService == nil {
		return errors.New("crawl service not configured")
	}

	root, err := resolveRoot(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case crawlWatch:
		return watchAndCrawl(ctx, cmd, root)
	case crawlEvery > 0:
		return crawlPeriodically(ctx, cmd, root)
	}

	result, err := crawlWithProgress(ctx, cmd, root)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	if crawlJSON {
		return outputJSON(cmd, result.Run)
	}
	printRunSummary(cmd, result.Run)
	return nil
}

// resolveRoot turns the argument into a page reference. Local paths are
// made absolute and a directory resolves to its index.html.
func resolveRoot(arg string) (domain.PageRef, error) {
	ref := domain.PageRef(arg)
	if ref.IsRemote() {
		return ref, nil
	}

	path, err := filepath.Abs(ref.LocalPath())
	if err != nil {
		return "", fmt.Errorf("invalid root %q: %w", arg, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("invalid root %q: %w", arg, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "index.html")
	}
	return domain.PageRef(path), nil
}

// crawlWithProgress runs a crawl while displaying progress on a terminal.
func crawlWithProgress(ctx context.Context, cmd *cobra.Command, root domain.PageRef) (*domain.CrawlResult, error) {
	if !isTerminal(cmd.OutOrStdout()) {
		return crawlService.Crawl(ctx, root)
	}

	type outcome struct {
		result *domain.CrawlResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := crawlService.Crawl(ctx, root)
		done <- outcome{result: result, err: err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			cmd.Print("\r\033[K")
			return o.result, o.err
		case <-ticker.C:
			// Best effort; a failed status read only skips one update.
			status, err := crawlService.Status(ctx)
			if err == nil && status != nil && status.Running {
				cmd.Printf("\rCrawling... %d pages visited, %d queued", status.PagesVisited, status.PagesQueued)
			}
		}
	}
}

func watchAndCrawl(ctx context.Context, cmd *cobra.Command, root domain.PageRef) error {
	if root.IsRemote() {
		return errors.New("--watch needs a local export")
	}
	if changeWatcher == nil {
		return errors.New("watcher not configured")
	}

	dir := filepath.Dir(root.LocalPath())
	changes, err := changeWatcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	crawlOnce(ctx, cmd, root)
	cmd.Printf("Watching %s for changes (ctrl+c to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("change detected in %s", dir)
			crawlOnce(ctx, cmd, root)
		}
	}
}

// crawlOnce crawls and reports, keeping a long-running mode alive on failure.
func crawlOnce(ctx context.Context, cmd *cobra.Command, root domain.PageRef) {
	result, err := crawlWithProgress(ctx, cmd, root)
	if err != nil {
		cmd.Printf("Crawl failed: %v\n", err)
		return
	}
	printRunSummary(cmd, result.Run)
}

func crawlPeriodically(ctx context.Context, cmd *cobra.Command, root domain.PageRef) error {
	if newScheduler == nil {
		return errors.New("scheduler not configured")
	}

	sched := newScheduler(root, crawlEvery)
	sched.OnResult(func(a domain.RecrawlAttempt) {
		stamp := a.Started.Format(time.TimeOnly)
		if !a.OK() {
			cmd.Printf("[%s] crawl failed: %s\n", stamp, a.Err)
			return
		}
		cmd.Printf("[%s] crawled %d lessons in %s\n", stamp, a.Lessons, a.Duration().Round(time.Millisecond))
	})

	cmd.Printf("Crawling %s every %s (ctrl+c to stop)\n", root, crawlEvery)
	err := sched.Start(ctx)
	_ = sched.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printRunSummary(cmd *cobra.Command, run domain.CrawlRun) {
	cmd.Printf("Crawled %s\n", run.Root)
	cmd.Printf("  Run:      %s\n", run.ID)
	cmd.Printf("  Pages:    %d (%d failed, %d unrecognized)\n", run.Pages, run.FailedPages, run.UnrecognizedPages)
	cmd.Printf("  Lessons:  %d\n", run.Lessons)
	cmd.Printf("  Duration: %s\n", run.Duration().Round(time.Millisecond))
}
