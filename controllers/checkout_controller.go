package controllers

import (
	"fmt"
	"strings"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckoutRequest represents the request body for submitting a checkout
type CheckoutRequest struct {
	CourseID    uint   `json:"course_id" binding:"required"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
	Batch       string `json:"batch"`
	CouponCode  string `json:"coupon_code"`
}

// validateBuyerInfo checks the required buyer fields and returns one error
// per missing or malformed field
func validateBuyerInfo(req *CheckoutRequest) utils.FieldValidationErrors {
	var errs utils.FieldValidationErrors

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, utils.FieldValidationError{Field: "name", Message: "Name is required"})
	} else if valid, msg := utils.ValidateName(req.Name); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "name", Message: msg})
	}

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, utils.FieldValidationError{Field: "email", Message: "Email is required"})
	} else if valid, msg := utils.ValidateEmail(req.Email); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "email", Message: msg})
	}

	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, utils.FieldValidationError{Field: "phone", Message: "Phone is required"})
	} else if valid, normalized := utils.ValidatePhone(req.Phone); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "phone", Message: normalized})
	} else {
		req.Phone = normalized
	}

	return errs
}

// SubmitCheckout creates a pending enrollment and payment for a course and
// opens a gateway session. Payment confirmation arrives later through the
// validation callback; this handler never blocks on it.
func SubmitCheckout(c *gin.Context) {
	utils.LogInfo("SubmitCheckout called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("Processing checkout for user ID: %d", user.ID)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if errs := validateBuyerInfo(&req); len(errs) > 0 {
		utils.LogError("Buyer info validation failed for user ID: %d: %v", user.ID, errs.Error())
		utils.BadRequest(c, "Invalid buyer information", errs)
		return
	}

	var course models.Course
	if err := config.DB.Where("id = ? AND is_active = ?", req.CourseID, true).First(&course).Error; err != nil {
		utils.LogError("Course not found for ID: %d, user ID: %d", req.CourseID, user.ID)
		utils.NotFound(c, "Course not found")
		return
	}
	utils.LogInfo("Found course ID: %d (%s) for user ID: %d", course.ID, course.Title, user.ID)

	// Refuse a second purchase of the same course
	var completed int64
	config.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.EnrollmentStatusCompleted).
		Count(&completed)
	if completed > 0 {
		utils.LogError("User ID: %d already enrolled in course ID: %d", user.ID, course.ID)
		utils.BadRequest(c, "You are already enrolled in this course", nil)
		return
	}

	// Optional coupon; an invalid code fails the checkout with the
	// specific reason rather than being silently dropped
	var coupon *models.Coupon
	var discount float64
	if req.CouponCode != "" {
		var reason string
		coupon, discount, reason = utils.ValidateCoupon(req.CouponCode, course.ID, course.Price, user.ID)
		if reason != "" {
			message := utils.CouponReasonMessage(reason, coupon)
			utils.LogError("Coupon rejected at checkout for code: %s, user ID: %d, reason: %s", req.CouponCode, user.ID, reason)
			utils.BadRequest(c, message, gin.H{"field": "coupon_code", "reason": message})
			return
		}
	}

	finalAmount := utils.RoundMoney(course.Price - discount)
	utils.LogInfo("Checkout amount for user ID: %d: price %.2f, discount %.2f, final %.2f", user.ID, course.Price, discount, finalAmount)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", user.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	// Reuse an abandoned pending enrollment for this course if one exists;
	// a fresh attempt always gets a fresh Payment row
	var enrollment models.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.EnrollmentStatusPending).
		First(&enrollment).Error
	if err != nil {
		enrollment = models.Enrollment{
			UserID:   user.ID,
			CourseID: course.ID,
			Status:   models.EnrollmentStatusPending,
		}
	}
	enrollment.Name = req.Name
	enrollment.Email = req.Email
	enrollment.Phone = req.Phone
	enrollment.Institution = req.Institution
	enrollment.Batch = req.Batch
	if enrollment.Batch == "" {
		enrollment.Batch = course.Batch
	}
	if coupon != nil {
		enrollment.CouponID = coupon.ID
		enrollment.CouponCode = coupon.Code
	} else {
		enrollment.CouponID = 0
		enrollment.CouponCode = ""
	}
	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to save enrollment for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create enrollment", nil)
		return
	}

	transactionID := fmt.Sprintf("CD-%d-%s", enrollment.ID, strings.Split(uuid.New().String(), "-")[0])

	payment := models.Payment{
		EnrollmentID:  enrollment.ID,
		Amount:        finalAmount,
		Currency:      "BDT",
		Method:        models.PaymentMethodSSLCommerz,
		Status:        models.PaymentStatusPending,
		TransactionID: transactionID,
	}

	// A fully discounted checkout needs no gateway round-trip
	if finalAmount <= 0 {
		payment.Method = models.PaymentMethodFree
		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to create payment for enrollment ID: %d: %v", enrollment.ID, err)
			utils.InternalServerError(c, "Failed to create payment", nil)
			return
		}
		invoice, err := finalizeSuccessfulPayment(tx, &payment, "free checkout")
		if err != nil {
			tx.Rollback()
			utils.LogError("Failed to finalize free checkout for enrollment ID: %d: %v", enrollment.ID, err)
			utils.InternalServerError(c, "Failed to complete enrollment", nil)
			return
		}
		if err := tx.Commit().Error; err != nil {
			utils.LogError("Failed to commit transaction for enrollment ID: %d: %v", enrollment.ID, err)
			utils.InternalServerError(c, "Failed to commit transaction", nil)
			return
		}
		go notifyEnrollmentCompleted(enrollment.ID, invoice)
		utils.LogInfo("Free checkout completed for enrollment ID: %d", enrollment.ID)
		utils.Success(c, "Enrollment completed", gin.H{
			"enrollment_id":  enrollment.ID,
			"payment_id":     payment.ID,
			"amount":         fmt.Sprintf("%.2f", finalAmount),
			"invoice_number": invoice.InvoiceNumber,
			"access_code":    invoice.AccessCode,
			"gateway_url":    nil,
		})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to load config for checkout: %v", err)
		utils.InternalServerError(c, "Failed to load configuration", nil)
		return
	}

	couponRef := ""
	if coupon != nil {
		couponRef = fmt.Sprintf("%d", coupon.ID)
	}

	client := utils.NewSSLCommerzClient(cfg.SSLCommerzStoreID, cfg.SSLCommerzStorePass, cfg.SSLCommerzSandbox)
	session, rawResponse, err := client.CreateSession(&utils.SSLCommerzSessionRequest{
		Amount:        finalAmount,
		Currency:      "BDT",
		TransactionID: transactionID,
		SuccessURL:    cfg.BaseURL + "/v1/payment/success",
		FailURL:       cfg.BaseURL + "/v1/payment/fail",
		CancelURL:     cfg.BaseURL + "/v1/payment/cancel",
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		ProductName:   course.Title,
		ValueA:        fmt.Sprintf("%d", enrollment.ID),
		ValueB:        fmt.Sprintf("%d", course.ID),
		ValueC:        fmt.Sprintf("%d", user.ID),
		ValueD:        couponRef,
	})
	if err != nil {
		tx.Rollback()
		// The provider's failure reason goes to the logs, never to the buyer
		utils.LogError("Gateway session creation failed for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Payment failed, please try again", nil)
		return
	}

	payment.GatewayResponse = rawResponse
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create payment for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to create payment", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Checkout submitted for enrollment ID: %d, transaction: %s", enrollment.ID, transactionID)
	utils.Success(c, "Checkout submitted successfully", gin.H{
		"enrollment_id":  enrollment.ID,
		"payment_id":     payment.ID,
		"transaction_id": transactionID,
		"amount":         fmt.Sprintf("%.2f", finalAmount),
		"discount":       fmt.Sprintf("%.2f", discount),
		"gateway_url":    session.GatewayPageURL,
		"session_key":    session.SessionKey,
	})
}
