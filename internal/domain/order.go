package domain

import (
	"context"
	"time"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// Order is a checkout record written by the payment provider integration
type Order struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	CheckoutSessionID string    `bson:"checkout_session_id" json:"checkout_session_id"`
	PaymentIntentID   string    `bson:"payment_intent_id" json:"payment_intent_id"`
	CustomerID        string    `bson:"customer_id" json:"customer_id"`
	AmountSubtotal    int64     `bson:"amount_subtotal" json:"amount_subtotal"` // minor units
	AmountTotal       int64     `bson:"amount_total" json:"amount_total"`       // minor units
	Currency          string    `bson:"currency" json:"currency"`
	PaymentStatus     string    `bson:"payment_status" json:"payment_status"`
	Status            string    `bson:"status" json:"status"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// OrderRepository is the gateway over the orders collection
type OrderRepository interface {
	List(ctx context.Context) ([]*Order, error)
	Count(ctx context.Context, filter map[string]interface{}) (int64, error)
}
