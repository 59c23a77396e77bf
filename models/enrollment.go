package models

import (
	"time"
)

// Enrollment status constants. A failed or abandoned checkout leaves the
// enrollment pending indefinitely; there is no automatic expiry.
const (
	EnrollmentStatusPending   = "pending"
	EnrollmentStatusCompleted = "completed"
)

type Enrollment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	User        User      `json:"user" gorm:"foreignKey:UserID"`
	CourseID    uint      `gorm:"index" json:"course_id"`
	Course      Course    `json:"course" gorm:"foreignKey:CourseID"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Institution string    `json:"institution"`
	Batch       string    `json:"batch"`
	CouponID    uint      `json:"coupon_id"`
	CouponCode  string    `json:"coupon_code"`
	Status      string    `json:"status"` // pending, completed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
