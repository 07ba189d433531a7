package domain

import (
	"context"
	"time"
)

// Customer activity status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// ActivityWindow is how recent a booking must be for its owner to count as active
const ActivityWindow = 30 * 24 * time.Hour

// Profile is a registered customer as stored by the gateway
type Profile struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FullName  string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	AvatarURL string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Customer is a Profile with fields derived from bookings at fetch time.
// Status is a snapshot classification and is not persisted.
type Customer struct {
	Profile
	LastBookingAt *time.Time `json:"last_booking_at,omitempty"`
	TotalBookings int        `json:"total_bookings"`
	Status        string     `json:"status"`
}

// IsValidUserStatus reports whether s is a known customer status
func IsValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// ProfileRepository is the gateway over the profiles collection
type ProfileRepository interface {
	List(ctx context.Context) ([]*Profile, error)
	Count(ctx context.Context, filter map[string]interface{}) (int64, error)
}
