// Package repository contains the SQL and Redis persistence layer. Sentinel
// errors let the service layer distinguish expected outcomes (absent user,
// consumed session) from store failures without leaking SQL details upward.
package repository

import "errors"

// ErrEmailExists is returned when a user insert violates the email
// uniqueness constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionNotFound is returned when no session row matches the token
// fingerprint. A deleted fingerprint never resolves again.
var ErrSessionNotFound = errors.New("session not found")
