package controllers

import (
	"strings"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the request body for creating a new coupon
type CreateCouponRequest struct {
	Code               string    `json:"code" binding:"required"`
	DiscountType       string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountPercentage float64   `json:"discount_percentage"`
	DiscountAmount     float64   `json:"discount_amount"`
	ValidFrom          time.Time `json:"valid_from" binding:"required"`
	ValidUntil         time.Time `json:"valid_until" binding:"required"`
	UsageLimit         int       `json:"usage_limit" binding:"required,gt=0"`
	MinimumAmount      float64   `json:"minimum_amount"`
	ApplicableCourses  []uint    `json:"applicable_courses"`
}

// CreateCoupon creates a new coupon
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	utils.LogInfo("Processing coupon creation with code: %s", req.Code)

	if valid, msg := utils.ValidateCouponCode(req.Code); !valid {
		utils.LogError("Invalid coupon code format: %s", req.Code)
		utils.BadRequest(c, msg, nil)
		return
	}

	if err := utils.ValidateCouponValue(req.DiscountType, req.DiscountPercentage, req.DiscountAmount); err != nil {
		utils.LogError("Invalid coupon value for code %s: %v", req.Code, err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	if !req.ValidUntil.After(req.ValidFrom) {
		utils.LogError("Invalid validity window for coupon code %s", req.Code)
		utils.BadRequest(c, "valid_until must be after valid_from", nil)
		return
	}
	if req.ValidUntil.Before(time.Now()) {
		utils.LogError("Invalid expiry date for coupon code %s: date is in the past", req.Code)
		utils.BadRequest(c, "Expiry date must be in the future", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// Check if coupon code already exists (case-insensitive)
	var existingCoupon models.Coupon
	if err := tx.Where("LOWER(code) = LOWER(?)", req.Code).First(&existingCoupon).Error; err == nil {
		tx.Rollback()
		utils.LogError("Coupon code already exists: %s", req.Code)
		utils.BadRequest(c, "Coupon code already exists", nil)
		return
	}

	coupon := models.Coupon{
		Code:               req.Code,
		DiscountType:       req.DiscountType,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		ValidFrom:          req.ValidFrom,
		ValidUntil:         req.ValidUntil,
		UsageLimit:         req.UsageLimit,
		MinimumAmount:      req.MinimumAmount,
		IsActive:           true,
	}

	if err := tx.Create(&coupon).Error; err != nil {
		tx.Rollback()
		// The expression index on LOWER(code) catches the race two
		// concurrent creates can win past the check above
		if strings.Contains(err.Error(), "duplicate key") {
			utils.LogError("Coupon code already exists: %s", req.Code)
			utils.BadRequest(c, "Coupon code already exists", nil)
			return
		}
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", err.Error())
		return
	}

	// Optional allow-list: verify every listed course exists
	for _, courseID := range req.ApplicableCourses {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			tx.Rollback()
			utils.LogError("Unknown course ID %d in coupon allow-list for code: %s", courseID, req.Code)
			utils.BadRequest(c, "Unknown course in applicable_courses", nil)
			return
		}
		if err := tx.Create(&models.CouponCourse{CouponID: coupon.ID, CourseID: courseID}).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to save coupon allow-list entry: %v", err)
			utils.InternalServerError(c, "Failed to save coupon courses", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Successfully created coupon with code: %s, ID: %d", coupon.Code, coupon.ID)
	utils.Success(c, "Coupon created successfully", gin.H{
		"id":                  coupon.ID,
		"code":                coupon.Code,
		"discount_type":       coupon.DiscountType,
		"discount_percentage": coupon.DiscountPercentage,
		"discount_amount":     coupon.DiscountAmount,
		"valid_from":          coupon.ValidFrom.Format("2006-01-02"),
		"valid_until":         coupon.ValidUntil.Format("2006-01-02"),
		"usage_limit":         coupon.UsageLimit,
		"usage_count":         0,
		"minimum_amount":      coupon.MinimumAmount,
		"applicable_courses":  req.ApplicableCourses,
		"is_active":           coupon.IsActive,
	})
}
