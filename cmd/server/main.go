package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/config"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/utils"
)

var version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "invoice-analytics",
	Short: "Invoice analytics API server",
	Long: `Serves dashboard reports, invoice search and export over a JSON API,
and proxies natural-language questions to the query service.

Running without a subcommand is the same as "serve".`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file (optional)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every command
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(cfg.ToLoggerConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	return cfg, logger, nil
}
