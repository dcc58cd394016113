package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/user-account-service/internal/model"
	"github.com/iliyamo/user-account-service/internal/repository"
	"github.com/iliyamo/user-account-service/internal/token"
	"github.com/iliyamo/user-account-service/internal/utils"
)

// UserStore is the user-lookup contract consumed by the auth flows. The
// profile subsystem owns the rest of the user lifecycle.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
}

// TokenPair is what login and refresh hand back to the transport layer,
// which owns cookie placement and max-age.
type TokenPair struct {
	AccessToken    string
	AccessExpires  time.Time
	RefreshToken   string
	RefreshExpires time.Time
}

// AuthService orchestrates login, refresh rotation and logout over the user
// store, the session store and the token codec.
type AuthService struct {
	users    UserStore
	sessions repository.SessionStore
	codec    *token.Codec
}

func NewAuthService(users UserStore, sessions repository.SessionStore, codec *token.Codec) *AuthService {
	return &AuthService{users: users, sessions: sessions, codec: codec}
}

// Login verifies the credentials and replaces any prior sessions with a
// single fresh one. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := utils.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(u.ID)
	if err != nil {
		return nil, err
	}

	// Revoke-all plus create in one transaction: exactly one live session
	// for the user afterward.
	err = s.sessions.InTx(ctx, func(store repository.SessionStore) error {
		if _, err := store.DeleteAllForUser(ctx, u.ID); err != nil {
			return err
		}
		return store.Create(ctx, u.ID, token.Fingerprint(pair.RefreshToken), pair.RefreshExpires)
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old token is
// consumed in the same transaction that persists its replacement, so two
// concurrent calls with the same token succeed at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	hash := token.Fingerprint(refreshToken)

	sess, err := s.sessions.FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		if _, err := s.sessions.DeleteByTokenHash(ctx, hash); err != nil {
			return nil, fmt.Errorf("reap expired session: %w", err)
		}
		return nil, ErrRefreshTokenExpired
	}

	// The signature, not the row, is the source of truth for the subject.
	userID, err := s.codec.Verify(refreshToken, token.PurposeRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	pair, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	err = s.sessions.InTx(ctx, func(store repository.SessionStore) error {
		n, err := store.DeleteByTokenHash(ctx, hash)
		if err != nil {
			return err
		}
		if n == 0 {
			// A concurrent rotation consumed the token first.
			return ErrInvalidRefreshToken
		}
		return store.Create(ctx, userID, token.Fingerprint(pair.RefreshToken), pair.RefreshExpires)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	return pair, nil
}

// Logout revokes every session the user owns. Deleting zero rows is not an
// error.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	if _, err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (s *AuthService) issuePair(userID uint64) (*TokenPair, error) {
	access, accessExp, err := s.codec.Issue(userID, token.PurposeAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshExp, err := s.codec.Issue(userID, token.PurposeRefresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:    access,
		AccessExpires:  accessExp,
		RefreshToken:   refresh,
		RefreshExpires: refreshExp,
	}, nil
}
