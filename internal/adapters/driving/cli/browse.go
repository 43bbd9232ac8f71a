package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

var browseRun string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a crawled timetable interactively",
	Long: `Launch the interactive terminal browser for a stored crawl run.

The browser lists the registers of the run; opening one shows its lessons
as a week grid.

Controls:
  ↑/k, ↓/j - Navigate registers
  Enter    - Open register
  ←/h, →/l - Previous / next day
  Esc      - Back
  r        - Reload
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseRun, "run", driving.LatestRun, "run ID")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(timetableService), browseRun)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
