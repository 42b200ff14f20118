package domain

import "strings"

// Role is the authorization tier attached to a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps arbitrary input to a known role, defaulting to USER.
// Anything that is not explicitly ADMIN stays unprivileged.
func ParseRole(s string) Role {
	if strings.ToUpper(strings.TrimSpace(s)) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) String() string { return string(r) }
