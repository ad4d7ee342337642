package main

import (
	"fmt"

	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/model"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and seed notification types",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// Models lists every table the backend owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.UserPreference{},
		&model.JournalEntry{},
		&model.CheckIn{},
		&model.NotificationType{},
		&model.Notification{},
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openDB(config.Load())
	if err != nil {
		return err
	}

	// gen_random_uuid() defaults need pgcrypto on postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: could not create pgcrypto extension: %v", err)
	}

	color.Cyan("Running AutoMigrate for %d tables...", len(Models()))
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	seeded, err := SeedNotificationTypes(db)
	if err != nil {
		return fmt.Errorf("seed notification types: %w", err)
	}
	color.Green("Migration complete (%d notification types added)", seeded)
	return nil
}

// SeedNotificationTypes inserts the default registry. Existing codes are
// left alone so edited templates survive a re-run.
func SeedNotificationTypes(db *gorm.DB) (int64, error) {
	types := model.DefaultNotificationTypes()
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&types)
	return res.RowsAffected, res.Error
}
