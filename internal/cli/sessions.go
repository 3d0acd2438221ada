package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Review recorded time sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var filter domain.SessionFilter
		if cmd.Flags().Changed("project") {
			id, _ := cmd.Flags().GetInt64("project")
			filter.ProjectID = &id
		}
		if cmd.Flags().Changed("task") {
			id, _ := cmd.Flags().GetInt64("task")
			filter.TaskID = &id
		}

		sessions, err := appInstance.SessionService.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found")
			return nil
		}

		projectNames, taskNames, err := loadNames(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s %-17s %-20s %-24s %-10s\n", "ID", "Started", "Project", "Task", "Duration")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, s := range sessions {
			fmt.Printf("%-5d %-17s %-20s %-24s %-10s\n",
				s.ID,
				s.StartTime.Local().Format("2006-01-02 15:04"),
				truncate(lo.ValueOr(projectNames, s.ProjectID, "Unknown Project"), 20),
				truncate(lo.ValueOr(taskNames, s.TaskID, "Unknown Task"), 24),
				domain.FormatHoursMinutes(s.DurationSeconds),
			)
		}

		total := lo.SumBy(sessions, func(s *domain.TimeSession) int64 { return s.DurationSeconds })
		fmt.Printf("\nTotal: %d session(s), %s\n", len(sessions), domain.FormatHoursMinutes(total))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a time session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}

		if err := appInstance.SessionService.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		fmt.Printf("✓ Session deleted (ID: %d)\n", id)
		return nil
	},
}

var sessionsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show recorded time per task for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		projectID, _ := cmd.Flags().GetInt64("project")
		project, err := appInstance.ProjectService.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		summary, err := appInstance.SessionService.Summarize(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to summarize project: %w", err)
		}

		_, taskNames, err := loadNames(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Project: %s\n", project.Name)
		fmt.Printf("  Sessions: %d\n", summary.SessionCount)
		fmt.Printf("  Active:   %s\n", domain.FormatHoursMinutes(summary.TotalSeconds))
		fmt.Printf("  Paused:   %s\n\n", domain.FormatHoursMinutes(summary.PausedTotal))

		taskIDs := lo.Keys(summary.ByTask)
		sort.Slice(taskIDs, func(i, j int) bool {
			return summary.ByTask[taskIDs[i]] > summary.ByTask[taskIDs[j]]
		})
		for _, id := range taskIDs {
			fmt.Printf("  %-40s %s\n",
				truncate(lo.ValueOr(taskNames, id, "Unknown Task"), 40),
				domain.FormatHoursMinutes(summary.ByTask[id]),
			)
		}
		return nil
	},
}

// loadNames returns project and task names keyed by ID
func loadNames(ctx context.Context) (map[int64]string, map[int64]string, error) {
	projects, err := appInstance.ProjectService.ListProjects(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	taskNames := make(map[int64]string)
	for _, p := range projects {
		tasks, err := appInstance.ProjectService.ListTasks(ctx, p.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		for _, t := range tasks {
			taskNames[t.ID] = t.Name
		}
	}

	projectNames := lo.SliceToMap(projects, func(p *domain.Project) (int64, string) {
		return p.ID, p.Name
	})
	return projectNames, taskNames, nil
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsSummaryCmd)

	sessionsListCmd.Flags().Int64("project", 0, "Only sessions of this project")
	sessionsListCmd.Flags().Int64("task", 0, "Only sessions of this task")

	sessionsSummaryCmd.Flags().Int64("project", 0, "Project to summarize (required)")
	sessionsSummaryCmd.MarkFlagRequired("project")
}
