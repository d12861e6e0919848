// Package migrations embeds the match log schema for every supported SQL
// dialect and runs it through goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// TableName is the goose version table.
const TableName = "schema_migrations"

// Supported commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
	CommandReset   = "reset"
)

// Dialect identifies a schema directory and the matching goose dialect.
type Dialect struct {
	Dir   string
	Goose string
}

var (
	Postgres = Dialect{Dir: "postgres", Goose: "postgres"}
	SQLite   = Dialect{Dir: "sqlite", Goose: "sqlite3"}
)

// ErrUnknownCommand is returned for commands goose is not asked to run here.
var ErrUnknownCommand = errors.New("unknown migration command")

// ErrUnknownDialect is returned when no schema exists for a database driver.
var ErrUnknownDialect = errors.New("unknown migration dialect")

// DialectFor maps a configured database driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

// goose keeps its dialect, base FS and logger in package state.
var gooseMu sync.Mutex

// Run executes a goose command against db. Output that goose prints
// (status tables, applied versions) goes to log.
func Run(ctx context.Context, db *sql.DB, dialect Dialect, command string, log *slog.Logger) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "migrations"), slog.String("dialect", dialect.Dir))

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&slogGooseLogger{log: log})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(dialect.Goose); err != nil {
		return fmt.Errorf("set goose dialect %q: %w", dialect.Goose, err)
	}

	log.Info("running migrations", slog.String("command", command))

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, dialect.Dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, dialect.Dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, dialect.Dir)
	case CommandReset:
		err = goose.ResetContext(ctx, db, dialect.Dir)
	case CommandVersion:
		var v int64
		v, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			log.Info("current schema version", slog.Int64("version", v))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migrations finished", slog.String("command", command))
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect Dialect, log *slog.Logger) error {
	return Run(ctx, db, dialect, CommandUp, log)
}

// Version reports the applied schema version.
func Version(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(dialect.Goose); err != nil {
		return 0, fmt.Errorf("set goose dialect %q: %w", dialect.Goose, err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

// slogGooseLogger adapts goose's printf logger to slog.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level without exiting; the error is returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}
