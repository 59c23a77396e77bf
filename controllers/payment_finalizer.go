package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"gorm.io/gorm"
)

// finalizeSuccessfulPayment runs the one-way transition from a confirmed
// payment to a completed enrollment: payment completed, enrollment
// completed, coupon usage recorded at most once, invoice issued exactly
// once. It must be called inside tx.
//
// The whole transition is gated on the payment still being pending, so a
// retried gateway callback or a second browser tab is a no-op that gets
// the already-issued invoice back.
func finalizeSuccessfulPayment(tx *gorm.DB, payment *models.Payment, gatewayPayload string) (*models.Invoice, error) {
	updates := map[string]interface{}{
		"status": models.PaymentStatusCompleted,
	}
	if gatewayPayload != "" {
		updates["gateway_response"] = gatewayPayload
	}
	if payment.ValID != "" {
		updates["val_id"] = payment.ValID
	}

	result := tx.Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, utils.WrapError(result.Error, "failed to complete payment")
	}
	if result.RowsAffected == 0 {
		// Already finalized by an earlier callback; hand back the
		// existing invoice unchanged
		utils.LogInfo("Payment ID: %d already finalized, treating callback as benign retry", payment.ID)
		var invoice models.Invoice
		if err := tx.Where("payment_id = ?", payment.ID).First(&invoice).Error; err != nil {
			return nil, utils.WrapError(err, "finalized payment has no invoice")
		}
		return &invoice, nil
	}
	payment.Status = models.PaymentStatusCompleted

	var enrollment models.Enrollment
	if err := tx.First(&enrollment, payment.EnrollmentID).Error; err != nil {
		return nil, utils.WrapError(err, "enrollment not found for payment")
	}

	if err := tx.Model(&enrollment).Update("status", models.EnrollmentStatusCompleted).Error; err != nil {
		return nil, utils.WrapError(err, "failed to complete enrollment")
	}

	if enrollment.CouponID != 0 {
		redeemed, err := utils.RedeemCoupon(tx, enrollment.CouponID)
		if err != nil {
			return nil, utils.WrapError(err, "failed to redeem coupon")
		}
		if redeemed {
			var course models.Course
			discount := 0.0
			if err := tx.First(&course, enrollment.CourseID).Error; err == nil {
				discount = utils.RoundMoney(course.Price - payment.Amount)
				if discount < 0 {
					discount = 0
				}
			}
			usage := models.CouponUsage{
				CouponID:        enrollment.CouponID,
				UserID:          enrollment.UserID,
				CourseID:        enrollment.CourseID,
				DiscountApplied: discount,
				UsedAt:          time.Now(),
			}
			if err := tx.Create(&usage).Error; err != nil {
				return nil, utils.WrapError(err, "failed to record coupon usage")
			}
		} else {
			// The limit was exhausted between checkout and confirmation.
			// The buyer already paid the discounted amount, so the payment
			// stands; the clamped counter is flagged for reconciliation.
			utils.LogError("Coupon ID: %d usage limit reached before payment ID: %d finalized; usage not recorded", enrollment.CouponID, payment.ID)
		}
	}

	now := time.Now()
	invoiceNumber := utils.GenerateInvoiceNumber(now)
	var clash int64
	tx.Model(&models.Invoice{}).Where("invoice_number = ?", invoiceNumber).Count(&clash)
	if clash > 0 {
		invoiceNumber = fmt.Sprintf("%s-%d", invoiceNumber, payment.ID)
	}

	firstName := ""
	if fields := strings.Fields(enrollment.Name); len(fields) > 0 {
		firstName = fields[0]
	}
	invoice := models.Invoice{
		PaymentID:     payment.ID,
		EnrollmentID:  enrollment.ID,
		InvoiceNumber: invoiceNumber,
		AccessCode:    utils.GenerateAccessCode(firstName, now, enrollment.Batch),
		Amount:        payment.Amount,
		Status:        models.InvoiceStatusValid,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create invoice")
	}

	utils.LogInfo("Finalized payment ID: %d, enrollment ID: %d, invoice: %s", payment.ID, enrollment.ID, invoice.InvoiceNumber)
	return &invoice, nil
}

// notifyEnrollmentCompleted sends the confirmation email for a finalized
// enrollment. Failures are logged and swallowed; the enrollment, payment
// and invoice state is already committed and never rolled back for a lost
// email.
func notifyEnrollmentCompleted(enrollmentID uint, invoice *models.Invoice) {
	var enrollment models.Enrollment
	if err := config.DB.Preload("Course").First(&enrollment, enrollmentID).Error; err != nil {
		utils.LogError("Failed to load enrollment ID: %d for confirmation email: %v", enrollmentID, err)
		return
	}

	if err := utils.SendEnrollmentConfirmation(
		enrollment.Email,
		enrollment.Name,
		enrollment.Course.Title,
		invoice.InvoiceNumber,
		invoice.AccessCode,
		invoice.Amount,
	); err != nil {
		utils.LogError("Failed to send confirmation email for enrollment ID: %d: %v", enrollmentID, err)
		return
	}
	utils.LogInfo("Confirmation email sent for enrollment ID: %d", enrollmentID)
}
