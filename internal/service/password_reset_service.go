package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/user-account-service/internal/repository"
	"github.com/iliyamo/user-account-service/internal/token"
	"github.com/iliyamo/user-account-service/internal/utils"
)

// Notifier delivers the raw reset token to an address. Templating and
// transport are entirely the collaborator's concern.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}

// ResetMarker tracks redeemed reset tokens. MarkUsed returns false when the
// fingerprint was already spent; Unmark releases a marker so the token
// becomes redeemable again.
type ResetMarker interface {
	MarkUsed(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, fingerprint string) error
}

// PasswordResetService orchestrates the self-service reset flow: issuing a
// reset token to a known address and redeeming it for a new password.
type PasswordResetService struct {
	users    UserStore
	sessions repository.SessionStore
	markers  ResetMarker
	notifier Notifier
	codec    *token.Codec
	hashCost int
}

func NewPasswordResetService(users UserStore, sessions repository.SessionStore, markers ResetMarker, notifier Notifier, codec *token.Codec, hashCost int) *PasswordResetService {
	return &PasswordResetService{
		users:    users,
		sessions: sessions,
		markers:  markers,
		notifier: notifier,
		codec:    codec,
		hashCost: hashCost,
	}
}

// RequestReset issues a reset token and hands it to the notifier. An unknown
// email returns success with no side effect so responses never reveal
// whether an account exists. A notifier failure does surface: once a token
// was generated the account's existence is already committed internally and
// reporting delivery failure adds no enumeration risk.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Sign and discard a token so this branch does not return
			// measurably faster than the known-email one.
			_, _, _ = s.codec.Issue(0, token.PurposeReset)
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	resetToken, _, err := s.codec.Issue(u.ID, token.PurposeReset)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, u.Email, resetToken); err != nil {
		return fmt.Errorf("send password reset notification: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token and stores a fresh hash of the new
// password. Signature and expiry failures collapse to one error kind. Each
// token is redeemable once, and a successful reset revokes every live
// session so a compromised session cannot outlive the password change.
func (s *PasswordResetService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	userID, err := s.codec.Verify(resetToken, token.PurposeReset)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	// The marker is burned before the write so a concurrent redemption of
	// the same token cannot change the password twice. If the write then
	// fails the marker is released and the token stays redeemable.
	fp := token.Fingerprint(resetToken)
	ok, err := s.markers.MarkUsed(ctx, fp, s.codec.TTL(token.PurposeReset))
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if !ok {
		return ErrInvalidOrExpiredToken
	}

	hash, err := utils.HashPassword(newPassword, s.hashCost)
	if err != nil {
		s.releaseMarker(ctx, fp)
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		s.releaseMarker(ctx, fp)
		return fmt.Errorf("save password hash: %w", err)
	}

	if _, err := s.sessions.DeleteAllForUser(ctx, u.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (s *PasswordResetService) releaseMarker(ctx context.Context, fingerprint string) {
	if err := s.markers.Unmark(ctx, fingerprint); err != nil {
		log.Printf("password reset: release marker: %v", err)
	}
}
