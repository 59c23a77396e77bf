package utils

import (
	"testing"
	"time"

	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/stretchr/testify/assert"
)

func activeCoupon() *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		Code:               "SAVE10",
		DiscountType:       models.CouponTypePercentage,
		DiscountPercentage: 10,
		ValidFrom:          now.Add(-24 * time.Hour),
		ValidUntil:         now.Add(24 * time.Hour),
		UsageLimit:         100,
		UsageCount:         0,
		IsActive:           true,
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	coupon := activeCoupon()

	discount := CalculateDiscount(coupon, 1000)
	assert.Equal(t, 100.0, discount)
	assert.Equal(t, 900.0, RoundMoney(1000-discount))
}

func TestCalculateDiscountPercentageRounding(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountPercentage = 15

	// 15% of 333.33 is 49.9995, rounded to the minor unit
	assert.Equal(t, 50.0, CalculateDiscount(coupon, 333.33))
}

func TestCalculateDiscountFixedCappedAtOrderAmount(t *testing.T) {
	coupon := &models.Coupon{
		Code:           "FLAT50",
		DiscountType:   models.CouponTypeFixed,
		DiscountAmount: 50,
	}

	discount := CalculateDiscount(coupon, 30)
	assert.Equal(t, 30.0, discount)
	assert.Equal(t, 0.0, RoundMoney(30-discount))
}

func TestCalculateDiscountNeverExceedsOrderAmount(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountPercentage = 90

	for _, amount := range []float64{0, 0.01, 1, 49.99, 1000, 99999.99} {
		assert.LessOrEqual(t, CalculateDiscount(coupon, amount), amount)
	}
}

func TestCalculateDiscountUnknownTypeIsZero(t *testing.T) {
	coupon := &models.Coupon{DiscountType: "bogus", DiscountAmount: 50}
	assert.Equal(t, 0.0, CalculateDiscount(coupon, 500))
}

func TestCheckCouponEligibilityHappyPath(t *testing.T) {
	coupon := activeCoupon()
	reason := CheckCouponEligibility(coupon, 1000, true, false, time.Now())
	assert.Empty(t, reason)
}

func TestCheckCouponEligibilityInactive(t *testing.T) {
	coupon := activeCoupon()
	coupon.IsActive = false
	reason := CheckCouponEligibility(coupon, 1000, true, false, time.Now())
	assert.Equal(t, CouponReasonInactive, reason)
}

func TestCheckCouponEligibilityExpired(t *testing.T) {
	now := time.Now()

	coupon := activeCoupon()
	coupon.ValidUntil = now.Add(-time.Hour)
	assert.Equal(t, CouponReasonExpired, CheckCouponEligibility(coupon, 1000, true, false, now))

	coupon = activeCoupon()
	coupon.ValidFrom = now.Add(time.Hour)
	coupon.ValidUntil = now.Add(48 * time.Hour)
	assert.Equal(t, CouponReasonExpired, CheckCouponEligibility(coupon, 1000, true, false, now))
}

func TestCheckCouponEligibilityUsageExhausted(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 5
	coupon.UsageCount = 5
	reason := CheckCouponEligibility(coupon, 1000, true, false, time.Now())
	assert.Equal(t, CouponReasonUsageExhausted, reason)
}

func TestCheckCouponEligibilityMinimumNotMet(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinimumAmount = 500
	reason := CheckCouponEligibility(coupon, 499.99, true, false, time.Now())
	assert.Equal(t, CouponReasonMinimumNotMet, reason)

	// Exactly the minimum qualifies
	assert.Empty(t, CheckCouponEligibility(coupon, 500, true, false, time.Now()))
}

func TestCheckCouponEligibilityNotApplicable(t *testing.T) {
	coupon := activeCoupon()
	reason := CheckCouponEligibility(coupon, 1000, false, false, time.Now())
	assert.Equal(t, CouponReasonNotApplicable, reason)
}

func TestCheckCouponEligibilityAlreadyUsed(t *testing.T) {
	coupon := activeCoupon()
	reason := CheckCouponEligibility(coupon, 1000, true, true, time.Now())
	assert.Equal(t, CouponReasonAlreadyUsed, reason)
}

func TestCheckCouponEligibilityReasonPrecedence(t *testing.T) {
	// A coupon failing several rules reports the first one checked, so the
	// buyer never learns about usage or applicability of a dead coupon
	coupon := activeCoupon()
	coupon.IsActive = false
	coupon.UsageCount = coupon.UsageLimit
	coupon.MinimumAmount = 99999

	reason := CheckCouponEligibility(coupon, 10, false, true, time.Now())
	assert.Equal(t, CouponReasonInactive, reason)
}

func TestCouponReasonMessageSharedForLookupFailures(t *testing.T) {
	coupon := activeCoupon()

	// not_found, inactive and expired must be indistinguishable to the buyer
	shared := "Invalid or expired coupon code"
	assert.Equal(t, shared, CouponReasonMessage(CouponReasonNotFound, nil))
	assert.Equal(t, shared, CouponReasonMessage(CouponReasonInactive, coupon))
	assert.Equal(t, shared, CouponReasonMessage(CouponReasonExpired, coupon))
}

func TestCouponReasonMessageMinimum(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinimumAmount = 500
	msg := CouponReasonMessage(CouponReasonMinimumNotMet, coupon)
	assert.Contains(t, msg, "500.00")
}

func TestCouponReasonMessageDistinctBusinessReasons(t *testing.T) {
	coupon := activeCoupon()
	assert.Equal(t, "This coupon has reached its usage limit", CouponReasonMessage(CouponReasonUsageExhausted, coupon))
	assert.Equal(t, "This coupon is not applicable to this course", CouponReasonMessage(CouponReasonNotApplicable, coupon))
	assert.Equal(t, "You have already used this coupon", CouponReasonMessage(CouponReasonAlreadyUsed, coupon))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 49.99, RoundMoney(49.987))
	assert.Equal(t, 100.0, RoundMoney(99.999))
	assert.Equal(t, 0.0, RoundMoney(0))
	assert.Equal(t, 33.33, RoundMoney(33.3333))
}
