// Package container provides dependency injection and lifecycle management
// for the invoice analytics service.
package container

import (
	"context"
	"fmt"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/service"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/config"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/infrastructure/export"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/infrastructure/external/chatsvc"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/infrastructure/persistence/repository"
	httpapi "github.com/Shreyasms28/InvoiceAnalytics/internal/interfaces/http"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/utils"
	"go.uber.org/zap"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Reports    port.ReportRepository
	Invoices   port.InvoiceRepository
	MasterData port.MasterDataRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Reports service.ReportService
	Search  service.SearchService
	Export  service.ExportService
	Chat    service.ChatService
	Ingest  service.IngestService
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Answerer  port.QueryAnswerer
	Exporter  port.InvoiceExporter
	Logger    *zap.Logger
}

// ProvideDatabase opens the connection pool, applying pending migrations
// first when autoMigrate is set.
func ProvideDatabase(ctx context.Context, cfg database.Config, autoMigrate bool, logger *zap.Logger) (*database.DB, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if autoMigrate {
		if err := database.NewMigrator(cfg, logger).RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Reports:    repository.NewReportRepository(db, logger),
		Invoices:   repository.NewInvoiceRepository(db, logger),
		MasterData: repository.NewMasterDataRepository(db, logger),
	}, nil
}

// ProvideQueryAnswerer creates the client of the natural-language query service.
func ProvideQueryAnswerer(cfg chatsvc.Config, logger *zap.Logger) port.QueryAnswerer {
	return chatsvc.NewClient(cfg, logger)
}

// ProvideExporter creates the spreadsheet writer used by invoice export.
func ProvideExporter(logger *zap.Logger) port.InvoiceExporter {
	return export.NewXLSXWriter(logger)
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Answerer == nil {
		return nil, fmt.Errorf("query answerer is required")
	}
	if deps.Exporter == nil {
		return nil, fmt.Errorf("exporter is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	logger := utils.NewKVLogger(deps.Logger)

	return &ServiceBundle{
		Reports: service.NewReportService(deps.Repos.Reports, logger),
		Search:  service.NewSearchService(deps.Repos.Invoices, logger),
		Export:  service.NewExportService(deps.Repos.Invoices, deps.Exporter, logger),
		Chat:    service.NewChatService(deps.Answerer, logger),
		Ingest:  service.NewIngestService(deps.Repos.MasterData, deps.Repos.Invoices, deps.TxManager, logger),
	}, nil
}

// ProvideServer creates the HTTP server over the application services.
// health may be nil.
func ProvideServer(cfg *config.Config, services *ServiceBundle, health httpapi.HealthReporter, logger *zap.Logger) *httpapi.Server {
	return httpapi.NewServer(cfg.ToServerConfig(), httpapi.Services{
		Reports: services.Reports,
		Search:  services.Search,
		Export:  services.Export,
		Chat:    services.Chat,
		Health:  health,
	}, utils.NewKVLogger(logger))
}
