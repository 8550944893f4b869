package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/taiyaki-backend/internal/app"
	"github.com/yungbote/taiyaki-backend/internal/data/db"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := app.LoadConfig()
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		svc, err := db.Open(cfg.DB, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := db.AutoMigrateAll(svc.DB()); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		log.Info("Migrations applied", "driver", svc.Driver())
		return nil
	},
}
