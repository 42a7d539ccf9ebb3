package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/sqlite3/*.sql migrations/pgx/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for the configured driver
type Migrator struct {
	cfg    Config
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(cfg Config, logger *zap.Logger) *Migrator {
	return &Migrator{
		cfg:    cfg,
		logger: logger,
	}
}

// RunMigrations applies all pending migrations. A dedicated connection is
// opened because closing the migrate instance also closes its database handle.
func (m *Migrator) RunMigrations() error {
	m.logger.Info("Starting database migrations", zap.String("driver", m.cfg.Driver))

	mig, err := m.open()
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil || dbErr != nil {
			m.logger.Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	m.logger.Info("Database migrations completed successfully",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	dsn, err := DSN(m.cfg)
	if err != nil {
		return nil, err
	}

	migrateDB, err := sql.Open(sqlDriverName(m.cfg.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var driver migratedb.Driver
	switch m.cfg.Driver {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", m.cfg.Driver)
	}
	if err != nil {
		migrateDB.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+m.cfg.Driver)
	if err != nil {
		migrateDB.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, m.cfg.Driver, driver)
	if err != nil {
		migrateDB.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	mig.Log = &migrateLogger{logger: m.logger}
	return mig, nil
}

// migrateLogger routes golang-migrate output through zap
type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}
