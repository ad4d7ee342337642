package main

import (
	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/admin/user"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
)

var setupAdminCmd = &cobra.Command{
	Use:   "setup-admin",
	Short: "Create the admin account, or reset its password and role",
	RunE:  runSetupAdmin,
}

func init() {
	setupAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (default ADMIN_EMAIL)")
	setupAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (default ADMIN_PASSWORD)")
	rootCmd.AddCommand(setupAdminCmd)
}

func runSetupAdmin(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if adminEmail == "" {
		adminEmail = cfg.Auth.AdminEmail
	}
	if adminPassword == "" {
		adminPassword = cfg.Auth.AdminPassword
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	created, err := user.NewManager(logger.NewNopLogger()).EnsureAdmin(ctx, uow, adminEmail, adminPassword)
	if err != nil {
		return err
	}

	if created {
		color.Green("Admin user created: %s", adminEmail)
	} else {
		color.Yellow("Admin user %s already existed; password and role were reset", adminEmail)
	}
	return nil
}
