package tokenx

import "time"

// Version is the current claims format version. Tokens carrying any other
// value are rejected.
const Version = 1

// DefaultSessionTTL is the default lifetime for session tokens. This is a
// deployment parameter, not a protocol invariant.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Subject identifies the authenticated user a token is issued for.
type Subject struct {
	ID       string
	Role     string
	Username string
}

// Claims is the signed claim set carried inside a session token. Timestamps
// are epoch milliseconds.
type Claims struct {
	Version   int    `json:"v"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	UserID    string `json:"uid"`
	Role      string `json:"role"`
	Username  string `json:"username"`
}

// Subject returns the claim set's subject fields.
func (c Claims) Subject() Subject {
	return Subject{ID: c.UserID, Role: c.Role, Username: c.Username}
}

// Expiry returns the expiry instant.
func (c Claims) Expiry() time.Time {
	return time.UnixMilli(c.ExpiresAt)
}
