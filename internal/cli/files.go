package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage files attached to tasks",
}

var filesAttachCmd = &cobra.Command{
	Use:   "attach [task_id] [path]",
	Short: "Attach a PDF document to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID("task", args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		file, err := appInstance.FileService.Attach(cmd.Context(), taskID, args[1], f)
		if err != nil {
			return fmt.Errorf("failed to attach file: %w", err)
		}

		fmt.Printf("✓ File attached: %s (ID: %d)\n", file.Name, file.ID)
		fmt.Printf("  Type: %s\n", file.ContentType)
		fmt.Printf("  Size: %s\n", formatSize(file.Size))
		return nil
	},
}

var filesListCmd = &cobra.Command{
	Use:   "list [task_id]",
	Short: "List the files attached to a task, or all files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			files []*domain.TaskFile
			err   error
		)
		if len(args) == 0 {
			files, err = appInstance.FileService.ListAll(cmd.Context())
		} else {
			taskID, perr := parseID("task", args[0])
			if perr != nil {
				return perr
			}
			files, err = appInstance.FileService.List(cmd.Context(), taskID)
		}
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
		if len(files) == 0 {
			fmt.Println("No files attached")
			return nil
		}

		fmt.Printf("%-5s %-36s %-24s %-10s\n", "ID", "Name", "Type", "Size")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, f := range files {
			printFile(f)
		}
		return nil
	},
}

var filesGetCmd = &cobra.Command{
	Use:   "get [file_id] [dest]",
	Short: "Save an attachment to a local path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("file", args[0])
		if err != nil {
			return err
		}

		file, rc, err := appInstance.FileService.Open(cmd.Context(), id)
		if err != nil {
			return err
		}
		defer rc.Close()

		out, err := os.OpenFile(args[1], os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[1], err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			return fmt.Errorf("failed to write %s: %w", args[1], err)
		}
		if err := out.Close(); err != nil {
			return err
		}

		fmt.Printf("✓ Saved %s to %s\n", file.Name, args[1])
		return nil
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete [file_id]",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("file", args[0])
		if err != nil {
			return err
		}

		if err := appInstance.FileService.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}

		fmt.Printf("✓ File deleted (ID: %d)\n", id)
		return nil
	},
}

func printFile(f *domain.TaskFile) {
	fmt.Printf("%-5d %-36s %-24s %-10s\n",
		f.ID,
		truncate(f.Name, 36),
		truncate(f.ContentType, 24),
		formatSize(f.Size),
	)
}

// formatSize renders a byte count with a binary unit
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	filesCmd.AddCommand(filesAttachCmd)
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesGetCmd)
	filesCmd.AddCommand(filesDeleteCmd)
}
