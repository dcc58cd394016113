package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/user-account-service/internal/model"
)

// SessionStore is the contract the auth service composes its flows over.
// InTx yields a store bound to one transaction so revoke+create on login and
// consume+reissue on refresh are each a single atomic unit.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindByTokenHash(ctx context.Context, tokenHash string) (model.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint64) (int64, error)
	InTx(ctx context.Context, fn func(SessionStore) error) error
}

// SessionRepo persists refresh-token sessions in the 'sessions' table.
type SessionRepo struct {
	db *sql.DB
	q  DBTX
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db, q: db} }

// Create inserts a session row for the given token fingerprint.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// FindByTokenHash returns the session owning the fingerprint, or
// ErrSessionNotFound.
func (r *SessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (model.Session, error) {
	var s model.Session
	err := r.q.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	return s, err
}

// DeleteByTokenHash removes the session row for the fingerprint and reports
// how many rows went away. Inside a transaction a zero count is the signal
// that a concurrent rotation consumed the token first.
func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash=?", tokenHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllForUser removes every session owned by the user.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InTx runs fn against a store bound to a single transaction.
func (r *SessionRepo) InTx(ctx context.Context, fn func(SessionStore) error) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&SessionRepo{db: r.db, q: tx})
	})
}
