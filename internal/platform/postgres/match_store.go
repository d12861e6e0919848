package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/store"
)

// matchLogLockKey serializes appends across processes sharing one database.
const matchLogLockKey = 0x6e756d696e61

// PostgresMatchStore implements store.MatchRecordStore on PostgreSQL.
type PostgresMatchStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.MatchRecordStore = (*PostgresMatchStore)(nil)

// NewPostgresMatchStore creates a match store on an open connection pool.
// If logger is nil, a default logger will be used.
func NewPostgresMatchStore(db *sql.DB, logger *slog.Logger) *PostgresMatchStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMatchStore{
		db:     db,
		logger: logger.With(slog.String("component", "match_store")),
	}
}

// Append implements store.MatchRecordStore.Append. An advisory transaction
// lock guards the latest-timestamp check so concurrent writers cannot
// interleave out of order.
func (s *PostgresMatchStore) Append(ctx context.Context, rec *domain.MatchRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rec == nil {
		return store.NewStoreError(store.MatchEntity, "append", "record is nil", store.ErrInvalidEntity)
	}
	if err := rec.Validate(); err != nil {
		log.Warn("match record validation failed during append",
			slog.String("error", err.Error()),
			slog.String("match_id", rec.ID.String()))
		return store.NewStoreError(store.MatchEntity, "append", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(matchLogLockKey)); err != nil {
			return store.NewStoreError(store.MatchEntity, "append", "lock failed", err)
		}

		latest, err := latestMatchedAt(ctx, tx)
		if err != nil {
			return store.NewStoreError(store.MatchEntity, "append", "read latest failed", MapError(err))
		}
		if latest.Valid && rec.MatchedAt.Before(latest.Time) {
			return store.NewStoreError(store.MatchEntity, "append",
				"timestamp precedes latest record", store.ErrOutOfOrder)
		}

		query := `
			INSERT INTO match_records (id, matched_at, chosen_number, matched_number)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query,
			rec.ID, rec.MatchedAt.UTC(), rec.ChosenNumber, rec.MatchedNumber); err != nil {
			if IsUniqueViolation(err) {
				return store.NewStoreError(store.MatchEntity, "append", rec.ID.String(), store.ErrMatchRecordExists)
			}
			return store.NewStoreError(store.MatchEntity, "append", "insert failed", MapError(err))
		}
		return nil
	})
	if err != nil {
		log.Error("failed to append match record",
			slog.String("error", err.Error()),
			slog.String("match_id", rec.ID.String()))
		return err
	}

	log.Info("match record appended",
		slog.String("match_id", rec.ID.String()),
		slog.Int("matched_number", rec.MatchedNumber))
	return nil
}

// latestMatchedAt returns the newest matched_at, invalid when the log is empty.
func latestMatchedAt(ctx context.Context, q store.DBTX) (sql.NullTime, error) {
	var latest sql.NullTime
	err := q.QueryRowContext(ctx, `SELECT MAX(matched_at) FROM match_records`).Scan(&latest)
	return latest, err
}

// List implements store.MatchRecordStore.List.
func (s *PostgresMatchStore) List(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, matched_at, chosen_number, matched_number
		FROM match_records
		ORDER BY matched_at DESC, created_at DESC
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list match records", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.MatchEntity, "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(&rec.ID, &rec.MatchedAt, &rec.ChosenNumber, &rec.MatchedNumber); err != nil {
			return nil, store.NewStoreError(store.MatchEntity, "list", "scan failed", err)
		}
		rec.MatchedAt = rec.MatchedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(store.MatchEntity, "list", "iteration failed", err)
	}

	log.Debug("match records listed", slog.Int("count", len(out)))
	return out, nil
}
