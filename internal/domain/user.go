package domain

import "time"

// User is an admin-panel account. PasswordHash is the scrypt-encoded
// credential; plaintext passwords are never stored.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
