package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/numina/internal/config"
	"github.com/phrazzld/numina/internal/platform/migrations"
	"github.com/phrazzld/numina/internal/platform/postgres"
	"github.com/phrazzld/numina/internal/platform/sqlite"
	"github.com/phrazzld/numina/internal/store"
)

// matchLog is the configured match record store plus the handle behind it.
// db is nil for the in-memory backend.
type matchLog struct {
	store store.MatchRecordStore
	db    *sql.DB
}

// Close releases the database handle, if any.
func (m *matchLog) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// setupMatchLog opens the configured backend and brings its schema up to date.
func setupMatchLog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*matchLog, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory match log; matches are lost on restart")
		return &matchLog{store: store.NewMemoryMatchStore(logger)}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite match log: %w", err)
		}
		logger.Info("SQLite match log opened")
		return &matchLog{store: s, db: s.DB()}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := migrations.Up(ctx, db, migrations.Postgres, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate match log: %w", err)
		}
		logger.Info("Database connection established")
		return &matchLog{store: postgres.NewPostgresMatchStore(db, logger), db: db}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// openMigrationDB opens the configured database without migrating it.
func openMigrationDB(ctx context.Context, cfg *config.Config) (*sql.DB, migrations.Dialect, error) {
	dialect, err := migrations.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, migrations.Dialect{}, fmt.Errorf("database driver %q has no schema: %w", cfg.Database.Driver, err)
	}

	var db *sql.DB
	switch dialect {
	case migrations.SQLite:
		db, err = sqlite.OpenDB(ctx, cfg.Database.URL)
	default:
		db, err = postgres.Open(ctx, cfg.Database.URL)
	}
	if err != nil {
		return nil, migrations.Dialect{}, err
	}
	return db, dialect, nil
}
