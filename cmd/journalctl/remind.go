package main

import (
	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/service"
	"ai-journaling-be/pkg/insight"
	pktNats "ai-journaling-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind-checkins",
	Short: "Publish CHECKIN_DUE for every user whose weekly check-in is due",
	Long: `Meant to run from cron. Each due user gets one CHECKIN_DUE event; the
notification service turns it into a stored notification.`,
	RunE: runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	wellness := service.NewWellnessService(
		unitofwork.NewRepositoryFactory(db),
		insight.DefaultCatalog(),
		service.NewEventPublisher(pub, logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())),
		cfg.Location(),
	)
	n, err := wellness.RemindDueCheckIns(cmd.Context())
	if err != nil {
		return err
	}
	color.Green("Check-in reminders published: %d", n)
	return nil
}
