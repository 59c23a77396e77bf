package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

type Coupon struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	// Case-insensitive uniqueness is enforced by an expression index
	// created in config.InitDB; gorm tags cannot describe LOWER(code).
	Code               string         `gorm:"index" json:"code"`
	DiscountType       string         `json:"discount_type"` // "percentage" or "fixed"
	DiscountPercentage float64        `json:"discount_percentage"`
	DiscountAmount     float64        `json:"discount_amount"`
	ValidFrom          time.Time      `json:"valid_from"`
	ValidUntil         time.Time      `json:"valid_until"`
	UsageLimit         int            `json:"usage_limit"`
	UsageCount         int            `json:"usage_count"`
	MinimumAmount      float64        `json:"minimum_amount"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Optional allow-list. Empty means the coupon applies to every course.
	ApplicableCourses []CouponCourse `json:"applicable_courses,omitempty" gorm:"foreignKey:CouponID"`
}

// CouponCourse is one row of a coupon's course allow-list.
type CouponCourse struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CouponID uint `gorm:"index:idx_coupon_course,unique" json:"coupon_id"`
	CourseID uint `gorm:"index:idx_coupon_course,unique" json:"course_id"`
}

// CouponUsage records a redeemed coupon. Created exactly once per paid
// checkout that carried a coupon, immutable thereafter.
type CouponUsage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CouponID        uint      `gorm:"index:idx_coupon_user,unique" json:"coupon_id"`
	UserID          uint      `gorm:"index:idx_coupon_user,unique" json:"user_id"`
	CourseID        uint      `json:"course_id"`
	DiscountApplied float64   `json:"discount_applied"`
	UsedAt          time.Time `json:"used_at"`
}
