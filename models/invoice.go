package models

import (
	"time"
)

// Invoice status constants
const (
	InvoiceStatusValid   = "valid"
	InvoiceStatusInvalid = "invalid"
	InvoiceStatusPending = "pending"
)

// Invoice is issued exactly once per completed payment. The access code is
// the human-shareable token used to unlock course content.
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PaymentID     uint      `gorm:"uniqueIndex" json:"payment_id"`
	EnrollmentID  uint      `gorm:"index" json:"enrollment_id"`
	InvoiceNumber string    `gorm:"uniqueIndex" json:"invoice_number"`
	AccessCode    string    `gorm:"index" json:"access_code"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"` // valid, invalid, pending
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
