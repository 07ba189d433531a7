package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// AdminClaims represents the console session token claims
type AdminClaims struct {
	UserID    string           `json:"user_id"`
	Email     string           `json:"email,omitempty"`
	Role      string           `json:"role"`
	CreatedAt *jwt.NumericDate `json:"created_at,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims back into the session identity
func (c *AdminClaims) Identity() Identity {
	id := Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
	if c.CreatedAt != nil {
		id.CreatedAt = c.CreatedAt.UTC()
	}
	return id
}

// IssuedAtMillis returns when the token was minted. The token id is a ULID
// carrying millisecond precision; "iat" only has seconds and is the fallback.
func (c *AdminClaims) IssuedAtMillis() time.Time {
	if id, err := ulid.ParseStrict(c.ID); err == nil {
		return ulid.Time(id.Time())
	}
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RevokedBy reports whether a sign-out at signedOutAt ends this token's session
func (c *AdminClaims) RevokedBy(signedOutAt time.Time) bool {
	if signedOutAt.IsZero() {
		return false
	}
	return !c.IssuedAtMillis().After(signedOutAt)
}
