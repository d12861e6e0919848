package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockQuery   = regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)
	latestQuery = regexp.QuoteMeta(`SELECT MAX(matched_at) FROM match_records`)
	insertQuery = `INSERT INTO match_records`
	listQuery   = `SELECT id, matched_at, chosen_number, matched_number\s+FROM match_records`
)

func newStore(t *testing.T) (*PostgresMatchStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresMatchStore(db, nil), mock
}

func newRecord(t *testing.T, at time.Time) *domain.MatchRecord {
	t.Helper()
	rec, err := domain.NewMatchRecord(7, 7, at)
	require.NoError(t, err)
	return rec
}

func TestNewPostgresMatchStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresMatchStore(nil, nil) })
}

func TestAppend_Success(t *testing.T) {
	s, mock := newStore(t)
	at := time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC)
	rec := newRecord(t, at)

	mock.ExpectBegin()
	mock.ExpectExec(lockQuery).WithArgs(int64(matchLogLockKey)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(latestQuery).WillReturnRows(
		sqlmock.NewRows([]string{"max"}).AddRow(at.Add(-time.Hour)))
	mock.ExpectExec(insertQuery).
		WithArgs(rec.ID, at, 7, 7).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_EmptyLog(t *testing.T) {
	s, mock := newStore(t)
	rec := newRecord(t, time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec(lockQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(latestQuery).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_OutOfOrderRollsBack(t *testing.T) {
	s, mock := newStore(t)
	at := time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(lockQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(latestQuery).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(at.Add(time.Minute)))
	mock.ExpectRollback()

	err := s.Append(context.Background(), newRecord(t, at))
	assert.ErrorIs(t, err, store.ErrOutOfOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DuplicateID(t *testing.T) {
	s, mock := newStore(t)
	rec := newRecord(t, time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec(lockQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(latestQuery).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(insertQuery).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := s.Append(context.Background(), rec)
	assert.ErrorIs(t, err, store.ErrMatchRecordExists)
	assert.True(t, store.IsDuplicateError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_InsertFailure(t *testing.T) {
	s, mock := newStore(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(lockQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(latestQuery).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(insertQuery).WillReturnError(boom)
	mock.ExpectRollback()

	err := s.Append(context.Background(), newRecord(t, time.Now()))
	assert.ErrorIs(t, err, boom)
	var se *store.StoreError
	assert.True(t, errors.As(err, &se))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_InvalidRecordSkipsDatabase(t *testing.T) {
	s, mock := newStore(t)
	rec := newRecord(t, time.Now())
	rec.MatchedNumber = 13

	assert.ErrorIs(t, s.Append(context.Background(), rec), store.ErrInvalidEntity)
	assert.ErrorIs(t, s.Append(context.Background(), nil), store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	s, mock := newStore(t)
	newer := newRecord(t, time.Date(2024, 3, 15, 14, 28, 0, 0, time.UTC))
	older := newRecord(t, time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC))

	mock.ExpectQuery(`(?s)` + listQuery + `.*LIMIT`).WithArgs(2).WillReturnRows(
		sqlmock.NewRows([]string{"id", "matched_at", "chosen_number", "matched_number"}).
			AddRow(newer.ID.String(), newer.MatchedAt, 7, 7).
			AddRow(older.ID.String(), older.MatchedAt, 7, 7))

	got, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoLimitAndQueryError(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(listQuery).WillReturnError(sql.ErrConnDone)

	_, err := s.List(context.Background(), 0)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
