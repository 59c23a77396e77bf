package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// GetCoupons returns coupons. Admins see full redemption details; students
// see a minimal listing of currently usable codes.
func GetCoupons(c *gin.Context) {
	utils.LogInfo("GetCoupons called")

	pagination := utils.NewPagination(c)
	order := c.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	_, isAdmin := c.Get("admin")

	query := config.DB.Model(&models.Coupon{})
	if !isAdmin {
		query = query.Where("is_active = ? AND valid_until > ?", true, time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to count coupons", nil)
		return
	}

	var coupons []models.Coupon
	if err := query.Order("created_at " + order).
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}
	utils.LogInfo("Retrieved %d coupons out of %d total", len(coupons), total)

	var formatted []gin.H
	now := time.Now()
	for _, coupon := range coupons {
		isExpired := now.After(coupon.ValidUntil)

		var description string
		if coupon.DiscountType == models.CouponTypePercentage {
			description = fmt.Sprintf("%.0f%% off", coupon.DiscountPercentage)
		} else {
			description = fmt.Sprintf("%.2f BDT off", coupon.DiscountAmount)
		}
		if coupon.MinimumAmount > 0 {
			description += fmt.Sprintf(" on orders above %.2f BDT", coupon.MinimumAmount)
		}

		if isAdmin {
			formatted = append(formatted, gin.H{
				"id":                  coupon.ID,
				"code":                coupon.Code,
				"discount_type":       coupon.DiscountType,
				"discount_percentage": coupon.DiscountPercentage,
				"discount_amount":     coupon.DiscountAmount,
				"minimum_amount":      coupon.MinimumAmount,
				"usage_limit":         coupon.UsageLimit,
				"usage_count":         coupon.UsageCount,
				"is_active":           coupon.IsActive,
				"is_expired":          isExpired,
				"valid_from":          coupon.ValidFrom.Format("2006-01-02"),
				"valid_until":         coupon.ValidUntil.Format("2006-01-02"),
				"created_at":          coupon.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		} else {
			formatted = append(formatted, gin.H{
				"code":        coupon.Code,
				"description": description,
				"valid_until": coupon.ValidUntil.Format("2006-01-02"),
			})
		}
	}

	utils.SuccessWithPagination(c, "Coupons retrieved successfully", formatted, total, pagination.Page, pagination.Limit)
}

// DeleteCoupon soft-deletes a coupon. Redeemed coupons keep their usage
// history; the row is only hidden from lookup.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	identifier := c.Param("id")
	if identifier == "" {
		utils.LogError("Missing coupon identifier")
		utils.BadRequest(c, "Coupon identifier is required", nil)
		return
	}

	var coupon models.Coupon
	var err error
	if id, convErr := strconv.ParseUint(identifier, 10, 64); convErr == nil {
		err = config.DB.First(&coupon, uint(id)).Error
	} else {
		err = config.DB.Where("LOWER(code) = LOWER(?)", identifier).First(&coupon).Error
	}
	if err != nil {
		utils.LogError("Coupon not found with identifier: %s", identifier)
		utils.NotFound(c, "Coupon not found")
		return
	}

	if err := config.DB.Delete(&coupon).Error; err != nil {
		utils.LogError("Failed to delete coupon %s: %v", coupon.Code, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	utils.LogInfo("Successfully deleted coupon: %s", coupon.Code)
	utils.Success(c, "Coupon deleted successfully", gin.H{
		"id":   coupon.ID,
		"code": coupon.Code,
	})
}
