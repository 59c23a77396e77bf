package controllers

import (
	"fmt"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest represents the request body for checking a coupon
// against a course before checkout
type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	CourseID uint    `json:"course_id" binding:"required"`
	Amount   float64 `json:"amount"`
}

// ValidateCoupon checks a coupon code for the current user and course and
// returns the discount it would grant. Validation alone never records a
// usage; that happens only when the payment completes.
func ValidateCoupon(c *gin.Context) {
	utils.LogInfo("ValidateCoupon called")

	user, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	userID := user.(models.User).ID

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Validating coupon code: %s for course ID: %d, user ID: %d", req.Code, req.CourseID, userID)

	var course models.Course
	if err := config.DB.Where("id = ? AND is_active = ?", req.CourseID, true).First(&course).Error; err != nil {
		utils.LogError("Course not found for ID: %d: %v", req.CourseID, err)
		utils.NotFound(c, "Course not found")
		return
	}

	// The order amount defaults to the course price; a client-supplied
	// amount is accepted only for display math and never trusted at checkout
	orderAmount := course.Price
	if req.Amount > 0 {
		orderAmount = req.Amount
	}

	coupon, discount, reason := utils.ValidateCoupon(req.Code, req.CourseID, orderAmount, userID)
	if reason != "" {
		message := utils.CouponReasonMessage(reason, coupon)
		utils.LogInfo("Coupon rejected for code: %s, user ID: %d, reason: %s", req.Code, userID, reason)
		utils.BadRequest(c, message, gin.H{
			"valid":  false,
			"reason": message,
		})
		return
	}

	finalAmount := utils.RoundMoney(orderAmount - discount)
	utils.LogInfo("Coupon %s valid for user ID: %d, discount: %.2f, final: %.2f", coupon.Code, userID, discount, finalAmount)
	utils.Success(c, "Coupon applied successfully", gin.H{
		"valid":           true,
		"coupon_id":       coupon.ID,
		"code":            coupon.Code,
		"discount_type":   coupon.DiscountType,
		"discount_amount": fmt.Sprintf("%.2f", discount),
		"order_amount":    fmt.Sprintf("%.2f", orderAmount),
		"final_amount":    fmt.Sprintf("%.2f", finalAmount),
	})
}
