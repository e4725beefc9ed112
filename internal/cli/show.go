package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/utils"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show migration status",
	Long:  "Shows all applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		statuses, err := s.runner.GetStatus(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		latest, err := s.runner.LatestVersion(cmd.Context())
		if err != nil {
			return err
		}
		if latest == "" {
			latest = "(none)"
		}

		var applied, pending []string
		for _, st := range statuses {
			if st.Applied {
				applied = append(applied, fmt.Sprintf("  %s - %s (%s)", st.Version, st.Name, st.AppliedAt.UTC().Format(time.DateTime)))
			} else {
				pending = append(pending, fmt.Sprintf("  %s - %s", st.Version, st.Name))
			}
		}

		utils.Println("\n" + strings.Repeat("=", 60))
		utils.PrintHeader("Migration Status")
		utils.Println(strings.Repeat("=", 60))
		utils.Println("Current version: " + latest)

		printSection("✓ Applied Migrations:", applied)
		printSection("○ Pending Migrations:", pending)

		utils.Println()
		return nil
	},
}

func printSection(title string, lines []string) {
	if len(lines) == 0 {
		utils.Println("\n" + title + " (none)")
		return
	}
	utils.Println("\n" + title)
	for _, line := range lines {
		utils.Println(line)
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
