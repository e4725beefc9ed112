package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/utils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  "Creates a shopadmin.yml configuration file (or the --config path) with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if utils.FileExists(configPath) {
			utils.PrintWarning("%s already exists", configPath)
			return nil
		}

		cfg := config.Default()
		cfg.DatabaseURL = "sqlite://shopadmin.db"

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}

		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		utils.PrintSuccess("Initialized shopadmin project")
		utils.PrintInfo("Created %s", configPath)
		utils.PrintInfo("Run 'shopadmin migrate' to create the schema")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
