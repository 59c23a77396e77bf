package models

import (
	"time"
)

// ManualPayment status constants
const (
	ManualPaymentStatusPending  = "pending"
	ManualPaymentStatusApproved = "approved"
	ManualPaymentStatusRejected = "rejected"
)

// ManualPayment is a buyer-claimed bKash transfer awaiting admin review.
// Approval runs the same finalization as an automated gateway confirmation.
type ManualPayment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index" json:"user_id"`
	CourseID      uint       `gorm:"index" json:"course_id"`
	EnrollmentID  uint       `json:"enrollment_id"`
	FullName      string     `json:"full_name"`
	BkashNumber   string     `json:"bkash_number"`
	TransactionID string     `json:"transaction_id"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"` // pending, approved, rejected
	ReviewNote    string     `json:"review_note,omitempty"`
	ReviewedBy    uint       `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
