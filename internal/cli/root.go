package cli

import (
	"fmt"
	"strconv"

	"github.com/andy/tasktimer/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "tasktimer",
	Short: "Track time on project tasks from the terminal",
	Long: `tasktimer organizes work into projects and tasks, runs a stopwatch
against a task, and keeps an encrypted log of the recorded sessions.

By default, running tasktimer without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(tuiCmd)
}

// parseID parses a positional numeric ID argument
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %q", what, s)
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
