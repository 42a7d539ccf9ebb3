package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/config"
	httpapi "github.com/Shreyasms28/InvoiceAnalytics/internal/interfaces/http"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	db           *database.DB
	repositories *RepositoryBundle
	services     *ServiceBundle
	server       *httpapi.Server

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Database (and migrations) and repositories
// 2. External clients and application services
// 3. HTTP server
// The server is built but not listening; run it with Server().Start.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize external clients and services
	if err := c.initServices(); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 3: Build the HTTP server
	c.server = ProvideServer(c.config, c.services, c, c.logger)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close releases all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	err := c.closeDatabase()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check database
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := c.db.PingContext(pingCtx); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check services
	if c.services != nil {
		status.Components["services"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["services"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	return status
}

// Degraded returns the unhealthy components and their reasons; it is empty
// when everything is healthy.
func (c *Container) Degraded(ctx context.Context) map[string]string {
	degraded := make(map[string]string)
	for name, component := range c.Health(ctx).Components {
		if !component.Healthy {
			degraded[name] = component.Message
		}
	}
	return degraded
}

// WatchHealth checks component health every interval until ctx is done,
// logging components as they become degraded and as they recover.
func (c *Container) WatchHealth(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("health check interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("Health watcher started", zap.Duration("interval", interval))

	previous := map[string]string{}
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Health watcher stopped")
			return nil
		case <-ticker.C:
			previous = c.reportHealth(ctx, previous)
		}
	}
}

// reportHealth logs changes against the previous degraded set and returns
// the current one.
func (c *Container) reportHealth(ctx context.Context, previous map[string]string) map[string]string {
	current := c.Degraded(ctx)
	for name, reason := range current {
		if old, ok := previous[name]; !ok || old != reason {
			c.logger.Warn("Component degraded", zap.String("component", name), zap.String("reason", reason))
		}
	}
	for name := range previous {
		if _, ok := current[name]; !ok {
			c.logger.Info("Component recovered", zap.String("component", name))
		}
	}
	return current
}

// initDatabase opens the database and creates all repositories.
func (c *Container) initDatabase(ctx context.Context) error {
	db, err := ProvideDatabase(ctx, c.config.ToDatabaseConfig(), c.config.Database.AutoMigrate, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	repos, err := ProvideRepositories(c.db, c.logger)
	if err != nil {
		c.closeDatabase()
		return err
	}

	c.repositories = repos
	return nil
}

// initServices creates external clients and all application services.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:     c.repositories,
		TxManager: c.db,
		Answerer:  ProvideQueryAnswerer(c.config.ToChatConfig(), c.logger),
		Exporter:  ProvideExporter(c.logger),
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

func (c *Container) closeDatabase() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		c.logger.Error("Failed to close database", zap.Error(err))
	}
	return err
}

// Getters for accessing container components

// DB returns the database connection pool.
func (c *Container) DB() *database.DB {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Server returns the HTTP server.
func (c *Container) Server() *httpapi.Server {
	return c.server
}
