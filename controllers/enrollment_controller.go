package controllers

import (
	"fmt"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// GetMyEnrollments returns the authenticated user's enrollments with their
// course and, for completed ones, the invoice issued at finalization
func GetMyEnrollments(c *gin.Context) {
	utils.LogInfo("GetMyEnrollments called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var enrollments []models.Enrollment
	if err := config.DB.Preload("Course").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		utils.LogError("Failed to fetch enrollments for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch enrollments", nil)
		return
	}

	results := make([]gin.H, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := gin.H{
			"id":          enrollment.ID,
			"status":      enrollment.Status,
			"coupon_code": enrollment.CouponCode,
			"created_at":  enrollment.CreatedAt,
			"course": gin.H{
				"id":    enrollment.Course.ID,
				"title": enrollment.Course.Title,
				"slug":  enrollment.Course.Slug,
				"batch": enrollment.Course.Batch,
				"price": fmt.Sprintf("%.2f", enrollment.Course.Price),
			},
		}
		if enrollment.Status == models.EnrollmentStatusCompleted {
			var invoice models.Invoice
			if err := config.DB.Where("enrollment_id = ? AND status = ?", enrollment.ID, models.InvoiceStatusValid).
				First(&invoice).Error; err == nil {
				entry["invoice_number"] = invoice.InvoiceNumber
				entry["access_code"] = invoice.AccessCode
				entry["amount_paid"] = fmt.Sprintf("%.2f", invoice.Amount)
			}
		}
		results = append(results, entry)
	}

	utils.Success(c, "Enrollments retrieved successfully", gin.H{
		"enrollments": results,
	})
}

// GetEnrollments returns all enrollments for admins, filterable by status and
// course. Pending rows here are abandoned or in-flight checkouts.
func GetEnrollments(c *gin.Context) {
	utils.LogInfo("GetEnrollments called")

	pagination := utils.NewPagination(c)
	status := c.Query("status")
	courseID := c.Query("course_id")

	query := config.DB.Model(&models.Enrollment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count enrollments: %v", err)
		utils.InternalServerError(c, "Failed to count enrollments", nil)
		return
	}

	var enrollments []models.Enrollment
	if err := query.Preload("Course").Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&enrollments).Error; err != nil {
		utils.LogError("Failed to fetch enrollments: %v", err)
		utils.InternalServerError(c, "Failed to fetch enrollments", nil)
		return
	}

	results := make([]gin.H, 0, len(enrollments))
	for _, enrollment := range enrollments {
		results = append(results, gin.H{
			"id":           enrollment.ID,
			"status":       enrollment.Status,
			"name":         enrollment.Name,
			"email":        enrollment.Email,
			"phone":        enrollment.Phone,
			"institution":  enrollment.Institution,
			"batch":        enrollment.Batch,
			"coupon_code":  enrollment.CouponCode,
			"course_id":    enrollment.CourseID,
			"course_title": enrollment.Course.Title,
			"user_id":      enrollment.UserID,
			"username":     enrollment.User.Username,
			"created_at":   enrollment.CreatedAt,
		})
	}

	utils.SuccessWithPagination(c, "Enrollments retrieved successfully", results, total, pagination.Page, pagination.Limit)
}

// GetEnrollmentDetails returns one enrollment with its payment attempts and
// invoice, for admin support lookups
func GetEnrollmentDetails(c *gin.Context) {
	utils.LogInfo("GetEnrollmentDetails called")

	enrollmentID := c.Param("id")

	var enrollment models.Enrollment
	if err := config.DB.Preload("Course").Preload("User").
		First(&enrollment, enrollmentID).Error; err != nil {
		utils.LogError("Enrollment not found for ID: %s", enrollmentID)
		utils.NotFound(c, "Enrollment not found")
		return
	}

	var payments []models.Payment
	config.DB.Where("enrollment_id = ?", enrollment.ID).Order("created_at DESC").Find(&payments)

	paymentRows := make([]gin.H, 0, len(payments))
	for _, payment := range payments {
		paymentRows = append(paymentRows, gin.H{
			"id":             payment.ID,
			"amount":         fmt.Sprintf("%.2f", payment.Amount),
			"method":         payment.Method,
			"status":         payment.Status,
			"transaction_id": payment.TransactionID,
			"created_at":     payment.CreatedAt,
		})
	}

	response := gin.H{
		"id":           enrollment.ID,
		"status":       enrollment.Status,
		"name":         enrollment.Name,
		"email":        enrollment.Email,
		"phone":        enrollment.Phone,
		"institution":  enrollment.Institution,
		"batch":        enrollment.Batch,
		"coupon_code":  enrollment.CouponCode,
		"course_title": enrollment.Course.Title,
		"username":     enrollment.User.Username,
		"payments":     paymentRows,
		"created_at":   enrollment.CreatedAt,
	}

	var invoice models.Invoice
	if err := config.DB.Where("enrollment_id = ?", enrollment.ID).First(&invoice).Error; err == nil {
		response["invoice"] = gin.H{
			"invoice_number": invoice.InvoiceNumber,
			"access_code":    invoice.AccessCode,
			"amount":         fmt.Sprintf("%.2f", invoice.Amount),
			"status":         invoice.Status,
		}
	}

	utils.Success(c, "Enrollment details retrieved successfully", response)
}
