// Package cli provides the command line interface for timetable.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Crawl and browse Optivum school timetables",
	Long: `timetable crawls the HTML pages published by the Optivum timetable
generator, either from a school website or a local export directory, and
turns them into a searchable timetable of lessons.

Every crawl is stored as a run. Use "runs" to list them, "lessons" to query
one, and "browse" to explore it interactively.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SchedulerFactory creates a scheduler that re-crawls root every interval.
type SchedulerFactory func(root domain.PageRef, interval time.Duration) driving.Scheduler

// Services holds the ports used by the commands.
type Services struct {
	Crawl     driving.CrawlService
	Timetable driving.TimetableService
	Settings  driving.SettingsService

	// Watcher enables crawl --watch. Optional.
	Watcher driven.ChangeWatcher

	// NewScheduler enables crawl --every. Optional.
	NewScheduler SchedulerFactory
}

var (
	crawlService     driving.CrawlService
	timetableService driving.TimetableService
	settingsService  driving.SettingsService
	changeWatcher    driven.ChangeWatcher
	newScheduler     SchedulerFactory
)

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	crawlService = s.Crawl
	timetableService = s.Timetable
	settingsService = s.Settings
	changeWatcher = s.Watcher
	newScheduler = s.NewScheduler
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	// cobra's Print helpers default to stderr.
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}
