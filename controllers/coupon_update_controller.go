package controllers

import (
	"strconv"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// UpdateCouponRequest represents the request body for updating an existing
// coupon. The code itself is immutable; admins soft-disable via is_active
// rather than deleting codes buyers may have saved.
type UpdateCouponRequest struct {
	DiscountType       string     `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	DiscountPercentage float64    `json:"discount_percentage" binding:"omitempty,gt=0"`
	DiscountAmount     float64    `json:"discount_amount" binding:"omitempty,gt=0"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
	UsageLimit         int        `json:"usage_limit" binding:"omitempty,gt=0"`
	MinimumAmount      *float64   `json:"minimum_amount"`
	IsActive           *bool      `json:"is_active"`
	ApplicableCourses  *[]uint    `json:"applicable_courses"`
}

// UpdateCoupon updates an existing coupon
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	identifier := c.Param("id")
	if identifier == "" {
		utils.LogError("Missing coupon identifier")
		utils.BadRequest(c, "Coupon identifier is required", nil)
		return
	}
	utils.LogInfo("Processing update for coupon identifier: %s", identifier)

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for coupon %s: %v", identifier, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// Numeric identifiers look up by ID, anything else by code
	var coupon models.Coupon
	var err error
	if id, convErr := strconv.ParseUint(identifier, 10, 64); convErr == nil {
		err = tx.First(&coupon, uint(id)).Error
	} else {
		err = tx.Where("LOWER(code) = LOWER(?)", identifier).First(&coupon).Error
	}
	if err != nil {
		tx.Rollback()
		utils.LogError("Coupon not found with identifier: %s", identifier)
		utils.NotFound(c, "Coupon not found")
		return
	}

	updates := map[string]interface{}{}
	if req.DiscountType != "" {
		updates["discount_type"] = req.DiscountType
	}
	if req.DiscountPercentage > 0 {
		updates["discount_percentage"] = req.DiscountPercentage
	}
	if req.DiscountAmount > 0 {
		updates["discount_amount"] = req.DiscountAmount
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit > 0 {
		if req.UsageLimit < coupon.UsageCount {
			tx.Rollback()
			utils.LogError("Usage limit %d below current usage count %d for coupon: %s", req.UsageLimit, coupon.UsageCount, coupon.Code)
			utils.BadRequest(c, "Usage limit cannot be below the current usage count", nil)
			return
		}
		updates["usage_limit"] = req.UsageLimit
	}
	if req.MinimumAmount != nil {
		updates["minimum_amount"] = *req.MinimumAmount
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := tx.Model(&coupon).Updates(updates).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to update coupon %s: %v", coupon.Code, err)
			utils.InternalServerError(c, "Failed to update coupon", nil)
			return
		}
	}

	// Replace the allow-list when one was supplied
	if req.ApplicableCourses != nil {
		if err := tx.Where("coupon_id = ?", coupon.ID).Delete(&models.CouponCourse{}).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to clear coupon allow-list for coupon %s: %v", coupon.Code, err)
			utils.InternalServerError(c, "Failed to update coupon courses", nil)
			return
		}
		for _, courseID := range *req.ApplicableCourses {
			var course models.Course
			if err := tx.First(&course, courseID).Error; err != nil {
				tx.Rollback()
				utils.LogError("Unknown course ID %d in allow-list for coupon: %s", courseID, coupon.Code)
				utils.BadRequest(c, "Unknown course in applicable_courses", nil)
				return
			}
			if err := tx.Create(&models.CouponCourse{CouponID: coupon.ID, CourseID: courseID}).Error; err != nil {
				tx.Rollback()
				utils.LogError("Failed to save coupon allow-list entry: %v", err)
				utils.InternalServerError(c, "Failed to update coupon courses", nil)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Successfully updated coupon: %s", coupon.Code)
	utils.Success(c, "Coupon updated successfully", gin.H{
		"id":   coupon.ID,
		"code": coupon.Code,
	})
}
