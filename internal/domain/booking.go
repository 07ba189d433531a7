package domain

import (
	"context"
	"time"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Display fallbacks when a joined row is missing
const (
	UnknownUserName     = "Unknown User"
	UnknownPackageTitle = "Unknown Package"
)

// Booking is a customer reservation of a package, enriched at read time with
// the referenced user's name and the package title.
type Booking struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	PackageID       string    `bson:"package_id" json:"package_id"`
	StartDate       time.Time `bson:"start_date" json:"start_date"`
	EndDate         time.Time `bson:"end_date" json:"end_date"`
	Status          string    `bson:"status" json:"status"`
	SpecialRequests string    `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`

	// Joined fields, never stored
	UserName     string `bson:"user_name,omitempty" json:"user_name"`
	UserEmail    string `bson:"user_email,omitempty" json:"user_email"`
	PackageTitle string `bson:"package_title,omitempty" json:"package_title"`
}

// ApplyJoinFallbacks fills display fields the join could not resolve
func (b *Booking) ApplyJoinFallbacks() {
	if b.UserName == "" {
		b.UserName = UnknownUserName
	}
	if b.PackageTitle == "" {
		b.PackageTitle = UnknownPackageTitle
	}
	// profiles carry no email
	b.UserEmail = ""
}

// IsValidBookingStatus reports whether s is a known booking status
func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// BookingRepository is the gateway over the bookings collection
type BookingRepository interface {
	// List returns all bookings newest first with user/package display fields joined
	List(ctx context.Context) ([]*Booking, error)
	// UpdateStatus changes only the status and returns the re-joined row
	UpdateStatus(ctx context.Context, id string, status string) (*Booking, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter map[string]interface{}) (int64, error)
}
