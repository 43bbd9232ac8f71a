package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage crawl settings",
	Long: `View and change crawl settings, stored in ~/.timetable/config.toml.

Use subcommands to change individual settings or restore the defaults.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one crawl setting.

Available keys:
  workers     pages fetched concurrently (at least 1)
  rate        requests per second to a web server, 0 for unlimited
  user_agent  User-Agent header sent to web servers
  timeout     per-request timeout, e.g. 30s
  interval    default re-crawl interval, e.g. 6h (at least 1m)`,
	Example: `  timetable settings set workers 8
  timetable settings set timeout 1m`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settingsService.GetDefaults()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Crawl]")
	cmd.Printf("  Workers: %d%s\n", settings.Workers, defaultMark(settings.Workers == defaults.Workers))
	if settings.RequestsPerSecond > 0 {
		cmd.Printf("  Rate: %g requests/s%s\n", settings.RequestsPerSecond,
			defaultMark(settings.RequestsPerSecond == defaults.RequestsPerSecond))
	} else {
		cmd.Println("  Rate: unlimited")
	}
	cmd.Printf("  User agent: %s%s\n", settings.UserAgent, defaultMark(settings.UserAgent == defaults.UserAgent))
	cmd.Printf("  Timeout: %s%s\n", settings.Timeout, defaultMark(settings.Timeout == defaults.Timeout))
	cmd.Printf("  Interval: %s%s\n", settings.Interval, defaultMark(settings.Interval == defaults.Interval))

	return nil
}

func defaultMark(isDefault bool) string {
	if isDefault {
		return " (default)"
	}
	return ""
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}
