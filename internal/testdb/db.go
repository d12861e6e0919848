package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/numina/internal/platform/migrations"
	"github.com/phrazzld/numina/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// DatabaseURL returns the connection string for integration tests.
// NUMINA_TEST_DATABASE_URL takes precedence over DATABASE_URL.
func DatabaseURL() string {
	if url := os.Getenv("NUMINA_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}

// GetTestDBWithT opens the test database, applies the migrations and closes
// the connection when the test finishes. The test is skipped when no
// database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("NUMINA_TEST_DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, DatabaseURL())
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrations.Up(ctx, db, migrations.Postgres, quiet), "failed to run migrations")
	return db
}

// ResetMatchRecords empties the match log.
func ResetMatchRecords(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, "TRUNCATE match_records")
	require.NoError(t, err, "failed to truncate match_records")
}

// WithTx executes fn within a transaction that is always rolled back, so
// statements issued by the test leave no trace.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if fn already finished the transaction
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
