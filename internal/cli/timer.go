package cli

import (
	"fmt"

	"github.com/andy/tasktimer/internal/tui"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer [task_id]",
	Short: "Open the timer for a task",
	Long: `Open the interactive timer for a task.

Keys: s=start, p=pause, r=resume, x=stop and save, w=retry a failed save.
Each stopped run is saved as a time session against the task.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		taskID, err := parseID("task", args[0])
		if err != nil {
			return err
		}

		task, err := appInstance.ProjectService.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		project, err := appInstance.ProjectService.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		if err := tui.Run(appInstance, tui.WithTimer(project, task)); err != nil {
			return fmt.Errorf("timer failed: %w", err)
		}
		return nil
	},
}
