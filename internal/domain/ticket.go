package domain

import (
	"context"
	"time"
)

// Support ticket status constants
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket priority levels, derived from age
const (
	TicketPriorityHigh   = "High"
	TicketPriorityMedium = "Medium"
	TicketPriorityLow    = "Low"
)

// SupportTicket is a help request raised by a customer
type SupportTicket struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Priority grades an unanswered ticket by how long it has been waiting
func (t *SupportTicket) Priority(now time.Time) string {
	age := now.Sub(t.CreatedAt)
	switch {
	case age > 48*time.Hour:
		return TicketPriorityHigh
	case age > 24*time.Hour:
		return TicketPriorityMedium
	default:
		return TicketPriorityLow
	}
}

// IsValidTicketStatus reports whether s is a known ticket status.
// Any-to-any transitions are allowed.
func IsValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketRepository is the gateway over the help_requests collection
type TicketRepository interface {
	List(ctx context.Context) ([]*SupportTicket, error)
	UpdateStatus(ctx context.Context, id string, status string) (*SupportTicket, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter map[string]interface{}) (int64, error)
}
