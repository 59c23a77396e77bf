package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"gorm.io/gorm"
)

// Coupon rejection reasons. The reason names are internal; buyers only see
// the messages from CouponReasonMessage.
const (
	CouponReasonNotFound       = "not_found"
	CouponReasonInactive       = "inactive"
	CouponReasonExpired        = "expired"
	CouponReasonUsageExhausted = "usage_exhausted"
	CouponReasonMinimumNotMet  = "minimum_not_met"
	CouponReasonNotApplicable  = "not_applicable"
	CouponReasonAlreadyUsed    = "already_used"
)

// RoundMoney rounds an amount to the currency's minor unit (poisha)
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CalculateDiscount computes the discount a coupon grants on an order
// amount. The discount never exceeds the order amount.
func CalculateDiscount(coupon *models.Coupon, orderAmount float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case models.CouponTypePercentage:
		discount = RoundMoney(orderAmount * coupon.DiscountPercentage / 100)
	case models.CouponTypeFixed:
		discount = coupon.DiscountAmount
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}
	return RoundMoney(discount)
}

// CheckCouponEligibility applies the coupon's business rules against a
// single order. It returns an empty string when the coupon is usable, or
// one of the CouponReason constants. The caller resolves courseAllowed and
// alreadyUsed from the allow-list and usage tables.
func CheckCouponEligibility(coupon *models.Coupon, orderAmount float64, courseAllowed, alreadyUsed bool, now time.Time) string {
	if !coupon.IsActive {
		return CouponReasonInactive
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return CouponReasonExpired
	}
	if coupon.UsageCount >= coupon.UsageLimit {
		return CouponReasonUsageExhausted
	}
	if orderAmount < coupon.MinimumAmount {
		return CouponReasonMinimumNotMet
	}
	if !courseAllowed {
		return CouponReasonNotApplicable
	}
	if alreadyUsed {
		return CouponReasonAlreadyUsed
	}
	return ""
}

// CouponReasonMessage maps a rejection reason to the buyer-facing message.
// Lookup and validity failures share one message so codes cannot be probed.
func CouponReasonMessage(reason string, coupon *models.Coupon) string {
	switch reason {
	case CouponReasonNotFound, CouponReasonInactive, CouponReasonExpired:
		return "Invalid or expired coupon code"
	case CouponReasonUsageExhausted:
		return "This coupon has reached its usage limit"
	case CouponReasonMinimumNotMet:
		return fmt.Sprintf("This coupon requires a minimum order amount of %.2f", coupon.MinimumAmount)
	case CouponReasonNotApplicable:
		return "This coupon is not applicable to this course"
	case CouponReasonAlreadyUsed:
		return "You have already used this coupon"
	}
	return ""
}

// ValidateCoupon looks up a coupon code (case-insensitively) and checks it
// against a course and order amount for a user. Validation has no side
// effects; usage is recorded only when the owning payment completes.
//
// Returns the coupon, the computed discount and an empty reason on success,
// or a nil coupon / zero discount and a CouponReason constant on failure.
func ValidateCoupon(code string, courseID uint, orderAmount float64, userID uint) (*models.Coupon, float64, string) {
	var coupon models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?)", code).First(&coupon).Error; err != nil {
		LogDebug("Coupon lookup failed for code %s: %v", code, err)
		return nil, 0, CouponReasonNotFound
	}

	// Non-empty allow-list restricts the coupon to the listed courses
	courseAllowed := true
	var allowListSize int64
	config.DB.Model(&models.CouponCourse{}).Where("coupon_id = ?", coupon.ID).Count(&allowListSize)
	if allowListSize > 0 {
		var matches int64
		config.DB.Model(&models.CouponCourse{}).
			Where("coupon_id = ? AND course_id = ?", coupon.ID, courseID).
			Count(&matches)
		courseAllowed = matches > 0
	}

	// Single use per user, enforced here and again by the unique index on
	// coupon_usages at finalization
	var priorUse int64
	config.DB.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&priorUse)

	reason := CheckCouponEligibility(&coupon, orderAmount, courseAllowed, priorUse > 0, time.Now())
	if reason != "" {
		return &coupon, 0, reason
	}

	return &coupon, CalculateDiscount(&coupon, orderAmount), ""
}

// RedeemCoupon increments a coupon's usage count, refusing to pass the
// usage limit. The conditional update serializes concurrent redemptions so
// two finalizing payments cannot over-redeem the last slot.
func RedeemCoupon(tx *gorm.DB, couponID uint) (bool, error) {
	result := tx.Model(&models.Coupon{}).
		Where("id = ? AND usage_count < usage_limit", couponID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
