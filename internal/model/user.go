package model

import "time"

// User mirrors the 'users' table. PasswordHash is a bcrypt hash and must
// never be serialized to clients; handlers define their own response types.
type User struct {
	ID           uint64    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email (unique, lowercased)
	Phone        string    // users.phone (optional)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
