package models

import (
	"time"
)

// Payment status constants. Transitions are one-directional: a new attempt
// creates a new Payment row with a new transaction id, never a retry in place.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment methods
const (
	PaymentMethodSSLCommerz = "sslcommerz"
	PaymentMethodRazorpay   = "razorpay"
	PaymentMethodBkash      = "bkash"
	PaymentMethodFree       = "free" // fully discounted checkout, no gateway round-trip
)

type Payment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID    uint      `gorm:"index" json:"enrollment_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Method          string    `json:"method"` // sslcommerz, razorpay, bkash
	Status          string    `json:"status"` // pending, completed, failed
	TransactionID   string    `gorm:"uniqueIndex" json:"transaction_id"`
	ValID           string    `json:"val_id,omitempty"`
	GatewayResponse string    `gorm:"type:text" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
