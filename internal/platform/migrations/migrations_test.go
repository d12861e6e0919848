package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEmbeddedDialectsMatch(t *testing.T) {
	pg, err := fs.Glob(FS, "postgres/*.sql")
	require.NoError(t, err)
	lite, err := fs.Glob(FS, "sqlite/*.sql")
	require.NoError(t, err)

	require.NotEmpty(t, pg)
	require.Len(t, lite, len(pg))
	for i := range pg {
		assert.Equal(t, filepath.Base(pg[i]), filepath.Base(lite[i]))
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver string
		want   Dialect
		ok     bool
	}{
		{"postgres", Postgres, true},
		{"pgx", Postgres, true},
		{"sqlite", SQLite, true},
		{"memory", Dialect{}, false},
	}
	for _, tt := range tests {
		got, err := DialectFor(tt.driver)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrUnknownDialect, tt.driver)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRunUpDownOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	log, buf := logger.NewTestLogger(t)

	require.NoError(t, Up(ctx, db, SQLite, log))

	v, err := Version(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = db.ExecContext(ctx,
		`INSERT INTO match_records (id, matched_at, chosen_number, matched_number, created_at)
		 VALUES ('a', 1, 7, 7, 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO match_records (id, matched_at, chosen_number, matched_number, created_at)
		 VALUES ('b', 1, 7, 12, 1)`)
	assert.Error(t, err, "check constraint rejects non-master two-digit realm")

	require.NoError(t, Run(ctx, db, SQLite, CommandStatus, log))
	require.NoError(t, Run(ctx, db, SQLite, CommandDown, log))

	v, err = Version(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	logger.AssertLogContains(t, buf, "migrations finished")
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	db := openSQLite(t)
	err := Run(context.Background(), db, SQLite, "sideways", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRunRequiresDB(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, SQLite, CommandUp, nil))
}
