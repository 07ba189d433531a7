package domain

import "time"

// SessionEvent names an identity change reported by the session provider
type SessionEvent string

const (
	EventSignedIn  SessionEvent = "SIGNED_IN"
	EventSignedOut SessionEvent = "SIGNED_OUT"
)

// Identity is the signed-in admin as seen by the console
type Identity struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
