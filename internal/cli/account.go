package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/service"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your tasktimer data",
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete ALL data: projects, tasks, sessions, files and the stored key",
	Long: `Delete every project, task, time session and attached file, then remove
the database encryption key from the keyring. Requires the database password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will permanently delete ALL of your data. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		password, err := app.ReadPassword("Database password: ")
		if err != nil {
			return err
		}

		err = appInstance.AccountService.DeleteAccount(cmd.Context(), password)
		if errors.Is(err, service.ErrInvalidPassword) {
			return fmt.Errorf("account not deleted: %w", err)
		}
		if err != nil {
			return err
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	accountCmd.AddCommand(accountDeleteCmd)
}
