package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/container"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load invoices from a JSON dataset",
	Long: `Loads a JSON dataset of invoices with their vendors, customers, line items
and payments. Invoices are keyed by number, so the same file can be loaded
repeatedly. The file defaults to ingest.data_file (DATA_FILE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		path := seedFile
		if path == "" {
			path = cfg.Ingest.DataFile
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()

		c, err := container.NewContainer(cfg, logger)
		if err != nil {
			return err
		}
		if err := c.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer c.Close()

		result, err := c.Services().Ingest.Load(cmd.Context(), f)
		if err != nil {
			return err
		}

		logger.Info("Seed completed",
			zap.String("file", path),
			zap.Int("invoices", result.Invoices),
			zap.Int("payments", result.Payments))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "dataset to load (default: ingest.data_file)")
}
