// Command journalctl runs maintenance tasks against the journaling backend:
// schema migration, admin setup, one-off analysis and check-in reminders.
package main

import (
	"fmt"
	"os"

	"ai-journaling-be/internal/config"
	"ai-journaling-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "journalctl",
	Short: "Maintenance commands for the emotion journaling backend",
	Long: `journalctl reads the same environment (.env) as the REST server.

Available commands:
  migrate         - Create or update tables and seed notification types
  setup-admin     - Create or reset the admin account
  analyze         - Run the emotion pipeline on a text and print the result
  remind-checkins - Notify users whose weekly check-in is due`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection)
}
