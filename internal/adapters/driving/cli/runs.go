package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

var runsJSON bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored crawl runs",
	Long: `Lists, shows and removes stored crawl runs.

Wherever a run ID is accepted, "latest" selects the most recent run.`,
	RunE: runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crawl runs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a crawl run and its timetable",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsRemoveCmd = &cobra.Command{
	Use:     "rm <run-id>...",
	Aliases: []string{"remove"},
	Short:   "Remove crawl runs",
	Long:    "Removes each listed run. Runs that cannot be removed are reported together after the rest are gone.",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRunsRemove,
}

func init() {
	runsCmd.PersistentFlags().BoolVar(&runsJSON, "json", false, "output as JSON")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRemoveCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if timetableService == nil {
		return errors.New("timetable service not configured")
	}

	runs, err := timetableService.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if runsJSON {
		return outputJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No runs yet. Use 'timetable crawl <root>' to create one.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.Pages),
			strconv.Itoa(r.FailedPages),
			strconv.Itoa(r.Lessons),
			r.Root.String(),
		}
	}
	printTable(cmd, []string{"ID", "STARTED", "PAGES", "FAILED", "LESSONS", "ROOT"}, rows)
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if timetableService == nil {
		return errors.New("timetable service not configured")
	}

	result, err := timetableService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if runsJSON {
		return outputJSON(cmd, result)
	}

	run, tt := result.Run, result.Timetable
	cmd.Printf("Run %s\n", run.ID)
	cmd.Printf("  Root:        %s\n", run.Root)
	cmd.Printf("  Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("  Duration:    %s\n", run.Duration().Round(time.Millisecond))
	cmd.Printf("  Pages:       %d (%d failed, %d unrecognized)\n", run.Pages, run.FailedPages, run.UnrecognizedPages)
	if tt == nil {
		return nil
	}
	if !tt.GeneratedOn.IsZero() {
		cmd.Printf("  Generated:   %s\n", tt.GeneratedOn.Format(time.DateOnly))
	}
	cmd.Println()
	cmd.Printf("  Lessons:     %d\n", len(tt.Lessons))
	cmd.Printf("  Teachers:    %d\n", len(tt.Teachers))
	cmd.Printf("  Classrooms:  %d\n", len(tt.Classrooms))
	cmd.Printf("  Subjects:    %d\n", len(tt.Subjects))
	cmd.Printf("  Registers:   %d\n", len(tt.Registers))
	if len(tt.Registers) > 0 {
		names := make([]string, len(tt.Registers))
		for i, r := range tt.Registers {
			names[i] = r.Name
		}
		cmd.Printf("    %s\n", strings.Join(names, ", "))
	}
	return nil
}

func runRunsRemove(cmd *cobra.Command, args []string) error {
	if timetableService == nil {
		return errors.New("timetable service not configured")
	}

	var errs []error
	for _, id := range args {
		if err := timetableService.Remove(cmd.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				errs = append(errs, fmt.Errorf("run %s not found", id))
				continue
			}
			errs = append(errs, fmt.Errorf("failed to remove run %s: %w", id, err))
			continue
		}
		cmd.Printf("Removed run %s\n", id)
	}
	return errors.Join(errs...)
}
