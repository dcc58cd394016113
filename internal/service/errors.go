// Package service implements the authentication and password-reset flows.
// The distinct error kinds below exist for logging and tests; the transport
// layer collapses all authentication failures to one unauthorized response
// so callers cannot tell an unknown email from a wrong password or a
// tampered token from an expired one.
package service

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken means the token is unknown, already consumed,
	// or never existed.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshTokenExpired means the session row outlived its expiry and
	// was removed as a side effect of the rejection.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrInvalidOrExpiredToken is the single externally visible failure for
	// reset-token verification, whatever the internal cause.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	// ErrUserNotFound is surfaced from reset redemption only, never from the
	// reset-request path.
	ErrUserNotFound = errors.New("user not found")
)
