package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/seed"
	"github.com/pankajredekar/shopadmin/internal/store"
	"github.com/pankajredekar/shopadmin/internal/utils"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data",
	Long:  "Fills an empty, fully migrated database with demo categories, products, customers and sales",
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
		if len(pending) > 0 {
			return fmt.Errorf("%d pending migration(s). Run 'shopadmin migrate' first", len(pending))
		}

		st := store.New(s.db, s.log, s.cfg.Inventory.LowStockThreshold)
		summary, err := seed.Run(cmd.Context(), st, s.log, seedOpts)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		utils.PrintSuccess("Seeded %d categories, %d products, %d customers and %d sales",
			summary.Categories, summary.Products, summary.Customers, summary.Sales)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Days, "days", 90, "days of sales history to generate")
	seedCmd.Flags().IntVar(&seedOpts.SalesPerDay, "sales-per-day", 4, "maximum sales per day")
	seedCmd.Flags().Uint64Var(&seedOpts.Seed, "seed", 1, "random seed")
	rootCmd.AddCommand(seedCmd)
}
