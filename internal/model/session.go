package model

import "time"

// Session models a row in the 'sessions' table: one row per currently valid
// refresh token. The plain token is not stored, only its SHA-256 fingerprint.
// Rows are created on login/refresh and deleted on logout, on expiry
// detection, or when the token is consumed during rotation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}
