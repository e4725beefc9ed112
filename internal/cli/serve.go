package cli

import (
	"github.com/spf13/cobra"

	"github.com/pankajredekar/shopadmin/internal/app"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API server",
	Long:  "Starts the HTTP API and blocks until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		app.New(cfg, app.Options{Migrate: serveMigrate}).Run()
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
