package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long:  "Applies all migrations that haven't been applied yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		pending, err := s.runner.GetPendingMigrations(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get pending migrations: %w", err)
		}

		if len(pending) == 0 {
			utils.PrintSuccess("No pending migrations")
			return nil
		}

		utils.PrintInfo("Applying %d migration(s)...", len(pending))

		n, err := s.runner.Migrate(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to apply migrations (%d applied): %w", n, err)
		}

		utils.PrintSuccess("Applied %d migration(s)", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
