package cli

import (
	"fmt"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
	Long:  `List, add, and delete projects.`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		projects, err := appInstance.ProjectService.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found")
			return nil
		}

		fmt.Printf("%-5s %-40s %-12s\n", "ID", "Name", "Recorded")
		fmt.Println("------------------------------------------------------------")

		for _, p := range projects {
			summary, err := appInstance.SessionService.Summarize(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to summarize project %d: %w", p.ID, err)
			}
			fmt.Printf("%-5d %-40s %-12s\n",
				p.ID,
				truncate(p.Name, 40),
				domain.FormatHoursMinutes(summary.TotalSeconds),
			)
		}

		fmt.Printf("\nTotal: %d project(s)\n", len(projects))
		return nil
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := appInstance.ProjectService.CreateProject(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		fmt.Printf("✓ Project created: %s (ID: %d)\n", project.Name, project.ID)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a project with its tasks, sessions and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseID("project", args[0])
		if err != nil {
			return err
		}

		project, err := appInstance.ProjectService.GetProject(ctx, id)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force && !confirmPrompt(fmt.Sprintf("Delete project %q with all its tasks, sessions and files?", project.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.ProjectService.DeleteProject(ctx, id); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}

		fmt.Printf("✓ Project deleted: %s\n", project.Name)
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)

	projectsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
