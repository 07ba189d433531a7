package domain

import (
	"context"
	"time"
)

// SessionRevocationStore remembers when an admin last signed out. Console
// tokens issued at or before that instant are no longer accepted.
type SessionRevocationStore interface {
	RevokeSessions(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	// SignedOutAt returns the zero time when the admin has not signed out
	SignedOutAt(ctx context.Context, userID string) (time.Time, error)
}
