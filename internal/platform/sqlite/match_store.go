// Package sqlite provides an embedded SQLite match log backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/platform/migrations"
	"github.com/phrazzld/numina/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MatchStore persists the match log in a SQLite file.
type MatchStore struct {
	sqlDB  *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.MatchRecordStore = (*MatchStore)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenDB opens and pings the SQLite file at path without touching its schema.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// Open opens the SQLite file at path and applies the embedded migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*MatchStore, error) {
	if log == nil {
		log = slog.Default()
	}

	sqlDB, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, sqlDB, migrations.SQLite, log); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &MatchStore{
		sqlDB:  sqlDB,
		logger: log.With(slog.String("component", "sqlite_match_store")),
		now:    time.Now,
	}, nil
}

// DB exposes the underlying handle for health checks.
func (s *MatchStore) DB() *sql.DB {
	return s.sqlDB
}

// Close closes the SQLite handle.
func (s *MatchStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// latestMatchedAt returns the newest matched_at in unix milliseconds.
func latestMatchedAt(ctx context.Context, q store.DBTX) (sql.NullInt64, error) {
	var latest sql.NullInt64
	err := q.QueryRowContext(ctx, `SELECT MAX(matched_at) FROM match_records`).Scan(&latest)
	return latest, err
}

// Append implements store.MatchRecordStore.Append. The latest-timestamp
// check and the insert run in one transaction.
func (s *MatchStore) Append(ctx context.Context, rec *domain.MatchRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rec == nil {
		return store.NewStoreError(store.MatchEntity, "append", "record is nil", store.ErrInvalidEntity)
	}
	if err := rec.Validate(); err != nil {
		log.Warn("match record validation failed", slog.String("error", err.Error()))
		return store.NewStoreError(store.MatchEntity, "append", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	at := toMillis(rec.MatchedAt)
	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		latest, err := latestMatchedAt(ctx, tx)
		if err != nil {
			return fmt.Errorf("read latest match: %w", err)
		}
		if latest.Valid && at < latest.Int64 {
			return store.NewStoreError(store.MatchEntity, "append",
				"timestamp precedes latest record", store.ErrOutOfOrder)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_records (id, matched_at, chosen_number, matched_number, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.ID.String(),
			at,
			rec.ChosenNumber,
			rec.MatchedNumber,
			toMillis(s.now()),
		)
		if err != nil {
			return mapError(err, rec.ID)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to append match record",
			slog.String("error", err.Error()),
			slog.String("match_id", rec.ID.String()))
		return err
	}

	log.Debug("match record appended", slog.String("match_id", rec.ID.String()))
	return nil
}

// List implements store.MatchRecordStore.List.
func (s *MatchStore) List(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `SELECT id, matched_at, chosen_number, matched_number
	          FROM match_records
	          ORDER BY matched_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError(store.MatchEntity, "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.MatchRecord
	for rows.Next() {
		var (
			id       string
			millis   int64
			rec      domain.MatchRecord
			parseErr error
		)
		if err := rows.Scan(&id, &millis, &rec.ChosenNumber, &rec.MatchedNumber); err != nil {
			return nil, store.NewStoreError(store.MatchEntity, "list", "scan failed", err)
		}
		if rec.ID, parseErr = uuid.Parse(id); parseErr != nil {
			return nil, store.NewStoreError(store.MatchEntity, "list", "stored id is not a uuid", parseErr)
		}
		rec.MatchedAt = fromMillis(millis)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(store.MatchEntity, "list", "iteration failed", err)
	}
	return out, nil
}

func mapError(err error, id uuid.UUID) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return store.NewStoreError(store.MatchEntity, "append", id.String(), store.ErrMatchRecordExists)
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return store.NewStoreError(store.MatchEntity, "append", "check constraint",
				fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
		}
	}
	return store.NewStoreError(store.MatchEntity, "append", "insert failed", err)
}
