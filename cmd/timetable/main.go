// Command timetable crawls and browses Optivum school timetables.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/timetable-cli/internal/connectors"
	"github.com/custodia-labs/timetable-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
	"github.com/custodia-labs/timetable-cli/internal/core/services"
	"github.com/custodia-labs/timetable-cli/internal/logger"
	"github.com/custodia-labs/timetable-cli/internal/normalisers/optivum"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("using default settings: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}()

	crawler := services.NewCrawlOrchestrator(
		connectors.NewDefaultRouter(*settings),
		optivum.New(),
		store,
		settings.Workers,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Crawl:     crawler,
		Timetable: services.NewTimetableService(store),
		Settings:  settingsService,
		Watcher:   filesystem.NewWatcher(filesystem.DefaultDebounce),
		NewScheduler: func(root domain.PageRef, interval time.Duration) driving.Scheduler {
			return services.NewScheduler(crawler, root, interval)
		},
	})

	// cobra reports the error itself
	return cli.Execute()
}
