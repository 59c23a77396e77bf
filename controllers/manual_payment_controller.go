package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// SubmitManualPaymentRequest represents a buyer-claimed bKash transfer
type SubmitManualPaymentRequest struct {
	CourseID      uint    `json:"course_id" binding:"required"`
	FullName      string  `json:"full_name" binding:"required"`
	BkashNumber   string  `json:"bkash_number" binding:"required"`
	TransactionID string  `json:"transaction_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// SubmitManualPayment stores a bKash transaction claim for admin review.
// Nothing is verified automatically; the claim sits pending until a human
// approves or rejects it.
func SubmitManualPayment(c *gin.Context) {
	utils.LogInfo("SubmitManualPayment called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req SubmitManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if valid, msg := utils.ValidateName(req.FullName); !valid {
		utils.LogError("Invalid full name for user ID: %d", user.ID)
		utils.BadRequest(c, msg, nil)
		return
	}

	valid, normalized := utils.ValidateBkashNumber(req.BkashNumber)
	if !valid {
		utils.LogError("Invalid bKash number for user ID: %d", user.ID)
		utils.BadRequest(c, normalized, nil)
		return
	}
	req.BkashNumber = normalized
	req.TransactionID = strings.ToUpper(strings.TrimSpace(req.TransactionID))

	var course models.Course
	if err := config.DB.Where("id = ? AND is_active = ?", req.CourseID, true).First(&course).Error; err != nil {
		utils.LogError("Course not found for ID: %d, user ID: %d", req.CourseID, user.ID)
		utils.NotFound(c, "Course not found")
		return
	}

	var completed int64
	config.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.EnrollmentStatusCompleted).
		Count(&completed)
	if completed > 0 {
		utils.LogError("User ID: %d already enrolled in course ID: %d", user.ID, course.ID)
		utils.BadRequest(c, "You are already enrolled in this course", nil)
		return
	}

	// The same transaction id cannot be claimed twice
	var duplicate int64
	config.DB.Model(&models.ManualPayment{}).
		Where("transaction_id = ? AND status IN ?", req.TransactionID,
			[]string{models.ManualPaymentStatusPending, models.ManualPaymentStatusApproved}).
		Count(&duplicate)
	if duplicate > 0 {
		utils.LogError("Duplicate manual payment claim for transaction: %s, user ID: %d", req.TransactionID, user.ID)
		utils.BadRequest(c, "This transaction has already been submitted", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", user.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// Reuse an abandoned pending enrollment for this course if one exists
	var enrollment models.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.EnrollmentStatusPending).
		First(&enrollment).Error
	if err != nil {
		enrollment = models.Enrollment{
			UserID:   user.ID,
			CourseID: course.ID,
			Status:   models.EnrollmentStatusPending,
			Email:    user.Email,
			Phone:    user.Phone,
			Batch:    course.Batch,
		}
	}
	enrollment.Name = req.FullName
	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to save enrollment for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create enrollment", nil)
		return
	}

	claim := models.ManualPayment{
		UserID:        user.ID,
		CourseID:      course.ID,
		EnrollmentID:  enrollment.ID,
		FullName:      req.FullName,
		BkashNumber:   req.BkashNumber,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Status:        models.ManualPaymentStatusPending,
	}
	if err := tx.Create(&claim).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to store manual payment claim for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to submit payment claim", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Manual payment claim %d submitted for transaction: %s, user ID: %d", claim.ID, claim.TransactionID, user.ID)
	utils.Created(c, "Payment claim received. It will be reviewed shortly.", gin.H{
		"id":             claim.ID,
		"enrollment_id":  enrollment.ID,
		"transaction_id": claim.TransactionID,
		"amount":         fmt.Sprintf("%.2f", claim.Amount),
		"status":         claim.Status,
	})
}

// ListManualPayments returns manual payment claims for admin review
func ListManualPayments(c *gin.Context) {
	utils.LogInfo("ListManualPayments called")

	pagination := utils.NewPagination(c)
	status := c.DefaultQuery("status", models.ManualPaymentStatusPending)

	query := config.DB.Model(&models.ManualPayment{})
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count manual payments: %v", err)
		utils.InternalServerError(c, "Failed to count payment claims", nil)
		return
	}

	var claims []models.ManualPayment
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&claims).Error; err != nil {
		utils.LogError("Failed to fetch manual payments: %v", err)
		utils.InternalServerError(c, "Failed to fetch payment claims", nil)
		return
	}

	utils.SuccessWithPagination(c, "Payment claims retrieved successfully", claims, total, pagination.Page, pagination.Limit)
}

// ReviewManualPaymentRequest represents an admin's decision on a claim
type ReviewManualPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Note   string `json:"note"`
}

// ReviewManualPayment approves or rejects a pending bKash claim. Approval
// runs the same finalization as a confirmed gateway payment; rejection is
// terminal with no further effect.
func ReviewManualPayment(c *gin.Context) {
	utils.LogInfo("ReviewManualPayment called")

	adminVal, exists := c.Get("admin")
	if !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	claimID := c.Param("id")
	var req ReviewManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Admin ID: %d reviewing manual payment %s: %s", admin.ID, claimID, req.Action)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var claim models.ManualPayment
	if err := tx.First(&claim, claimID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Manual payment not found for ID: %s", claimID)
		utils.NotFound(c, "Payment claim not found")
		return
	}

	if claim.Status != models.ManualPaymentStatusPending {
		tx.Rollback()
		utils.LogError("Manual payment %d already reviewed: %s", claim.ID, claim.Status)
		utils.BadRequest(c, "This claim has already been reviewed", nil)
		return
	}

	now := time.Now()
	newStatus := models.ManualPaymentStatusRejected
	if req.Action == "approve" {
		newStatus = models.ManualPaymentStatusApproved
	}

	if err := tx.Model(&claim).Updates(map[string]interface{}{
		"status":      newStatus,
		"review_note": req.Note,
		"reviewed_by": admin.ID,
		"reviewed_at": now,
	}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update manual payment %d: %v", claim.ID, err)
		utils.InternalServerError(c, "Failed to update payment claim", nil)
		return
	}

	if req.Action == "reject" {
		if err := tx.Commit().Error; err != nil {
			utils.LogError("Failed to commit transaction for claim %d: %v", claim.ID, err)
			utils.InternalServerError(c, "Failed to commit transaction", nil)
			return
		}
		utils.LogInfo("Manual payment %d rejected by admin ID: %d", claim.ID, admin.ID)
		utils.Success(c, "Payment claim rejected", gin.H{
			"id":     claim.ID,
			"status": models.ManualPaymentStatusRejected,
		})
		return
	}

	payment := models.Payment{
		EnrollmentID:  claim.EnrollmentID,
		Amount:        claim.Amount,
		Currency:      "BDT",
		Method:        models.PaymentMethodBkash,
		Status:        models.PaymentStatusPending,
		TransactionID: claim.TransactionID,
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create payment for claim %d: %v", claim.ID, err)
		utils.InternalServerError(c, "Failed to create payment", nil)
		return
	}

	gatewayPayload := fmt.Sprintf(`{"manual_payment_id":%d,"bkash_number":%q,"reviewed_by":%d}`, claim.ID, claim.BkashNumber, admin.ID)
	invoice, err := finalizeSuccessfulPayment(tx, &payment, gatewayPayload)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to finalize approved claim %d: %v", claim.ID, err)
		utils.InternalServerError(c, "Failed to complete enrollment", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for claim %d: %v", claim.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	go notifyEnrollmentCompleted(claim.EnrollmentID, invoice)

	utils.LogInfo("Manual payment %d approved by admin ID: %d, invoice: %s", claim.ID, admin.ID, invoice.InvoiceNumber)
	utils.Success(c, "Payment claim approved", gin.H{
		"id":             claim.ID,
		"status":         models.ManualPaymentStatusApproved,
		"payment_id":     payment.ID,
		"invoice_number": invoice.InvoiceNumber,
		"access_code":    invoice.AccessCode,
	})
}
