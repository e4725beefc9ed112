package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/utils"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback [n]",
	Short: "Rollback migrations",
	Long:  "Rolls back the last N migrations (default: 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) > 0 {
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid number: %q", args[0])
			}
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		applied, err := s.runner.AppliedCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get applied count: %w", err)
		}
		if applied == 0 {
			utils.PrintWarning("No migrations to rollback")
			return nil
		}
		if int64(n) > applied {
			n = int(applied)
		}

		utils.PrintInfo("Rolling back %d migration(s)...", n)

		done, err := s.runner.Rollback(cmd.Context(), n)
		if err != nil {
			return fmt.Errorf("failed to rollback (%d rolled back): %w", done, err)
		}

		utils.PrintSuccess("Rolled back %d migration(s)", done)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}
