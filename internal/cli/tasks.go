package cli

import (
	"fmt"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the tasks of a project",
}

var tasksListCmd = &cobra.Command{
	Use:   "list [project_id]",
	Short: "List the tasks of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		projectID, err := parseID("project", args[0])
		if err != nil {
			return err
		}
		project, err := appInstance.ProjectService.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		tasks, err := appInstance.ProjectService.ListTasks(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Printf("No tasks in %s\n", project.Name)
			return nil
		}

		summary, err := appInstance.SessionService.Summarize(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to summarize project: %w", err)
		}

		fmt.Printf("Project: %s\n\n", project.Name)
		fmt.Printf("%-5s %-40s %-12s\n", "ID", "Task", "Recorded")
		fmt.Println("------------------------------------------------------------")
		for _, t := range tasks {
			fmt.Printf("%-5d %-40s %-12s\n",
				t.ID,
				truncate(t.Name, 40),
				domain.FormatHoursMinutes(summary.ByTask[t.ID]),
			)
		}

		fmt.Printf("\nTotal: %d task(s), %s recorded\n", len(tasks), domain.FormatHoursMinutes(summary.TotalSeconds))
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [project_id] [name]",
	Short: "Add a task to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID("project", args[0])
		if err != nil {
			return err
		}

		task, err := appInstance.ProjectService.CreateTask(cmd.Context(), projectID, args[1])
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("✓ Task created: %s (ID: %d)\n", task.Name, task.ID)
		return nil
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task with its sessions and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseID("task", args[0])
		if err != nil {
			return err
		}
		task, err := appInstance.ProjectService.GetTask(ctx, id)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force && !confirmPrompt(fmt.Sprintf("Delete task %q with its sessions and files?", task.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.ProjectService.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("✓ Task deleted: %s\n", task.Name)
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDeleteCmd)

	tasksDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
