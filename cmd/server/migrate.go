package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := database.NewMigrator(cfg.ToDatabaseConfig(), logger).RunMigrations(); err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return err
		}
		return nil
	},
}
