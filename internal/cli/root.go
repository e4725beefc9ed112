package cli

import (
	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "shopadmin",
	Short:         "E-commerce admin backend",
	Long:          "shopadmin serves the inventory, sales and revenue admin API and manages its database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "path to the config file")
}

// Execute runs the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		utils.PrintError("%v", err)
		return err
	}
	return nil
}
