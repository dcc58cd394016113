package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRepoWithMock(t *testing.T) (*SessionRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSessionRepo(db), mock, db
}

func TestSessionRepo_Create(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(1), "hash-1", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), 1, "hash-1", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_FindByTokenHash(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
		AddRow(3, 1, "hash-1", now.Add(time.Hour), now)
	mock.ExpectQuery("SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=").
		WithArgs("hash-1").
		WillReturnRows(rows)

	s, err := repo.FindByTokenHash(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.ID)
	assert.Equal(t, uint64(1), s.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_FindByTokenHash_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=").
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTokenHash(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepo_DeleteByTokenHash_ReportsCount(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token_hash=?")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token_hash=?")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByTokenHash(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Consumed fingerprints never resolve again.
	n, err = repo.DeleteByTokenHash(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSessionRepo_DeleteAllForUser(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE user_id=?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteAllForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSessionRepo_InTx_CommitsDeleteThenInsert(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token_hash=?")).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(1), "new-hash", exp).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := repo.InTx(ctx, func(store SessionStore) error {
		n, err := store.DeleteByTokenHash(ctx, "old-hash")
		if err != nil {
			return err
		}
		require.Equal(t, int64(1), n)
		return store.Create(ctx, 1, "new-hash", exp)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_InTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token_hash=?")).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("token already consumed")
	ctx := context.Background()
	err := repo.InTx(ctx, func(store SessionStore) error {
		n, err := store.DeleteByTokenHash(ctx, "old-hash")
		if err != nil {
			return err
		}
		if n == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
