package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
)

// InitiateRazorpayPayment opens a Razorpay order for an international card
// payment against a pending enrollment. Each initiation is a fresh payment
// attempt with its own gateway order id.
func InitiateRazorpayPayment(c *gin.Context) {
	utils.LogInfo("InitiateRazorpayPayment called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		EnrollmentID uint `json:"enrollment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. enrollment_id is required", err.Error())
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Where("id = ? AND user_id = ?", req.EnrollmentID, user.ID).First(&enrollment).Error; err != nil {
		utils.LogError("Enrollment not found for ID: %d, user ID: %d", req.EnrollmentID, user.ID)
		utils.NotFound(c, "Enrollment not found")
		return
	}

	if enrollment.Status != models.EnrollmentStatusPending {
		utils.LogError("Enrollment ID: %d is already %s", enrollment.ID, enrollment.Status)
		utils.BadRequest(c, "Payment for this enrollment has already been completed", nil)
		return
	}

	// Carry the amount from the original checkout attempt so the coupon
	// discount survives a change of payment method
	var priorPayment models.Payment
	if err := config.DB.Where("enrollment_id = ?", enrollment.ID).
		Order("created_at DESC").First(&priorPayment).Error; err != nil {
		utils.LogError("No payment attempt found for enrollment ID: %d", enrollment.ID)
		utils.BadRequest(c, "No checkout found for this enrollment", nil)
		return
	}

	// Razorpay expects the amount in the minor unit
	amountMinor := int(utils.RoundMoney(priorPayment.Amount) * 100)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        "BDT",
		"receipt":         fmt.Sprintf("enrollment_%d", enrollment.ID),
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Payment failed, please try again", nil)
		return
	}
	rzOrderID := fmt.Sprintf("%v", rzOrder["id"])
	utils.LogInfo("Created Razorpay order %s for enrollment ID: %d", rzOrderID, enrollment.ID)

	payment := models.Payment{
		EnrollmentID:  enrollment.ID,
		Amount:        priorPayment.Amount,
		Currency:      "BDT",
		Method:        models.PaymentMethodRazorpay,
		Status:        models.PaymentStatusPending,
		TransactionID: rzOrderID,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to create payment for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to create payment", nil)
		return
	}

	utils.Success(c, "Payment initiated successfully", gin.H{
		"razorpay_order_id": rzOrderID,
		"amount":            fmt.Sprintf("%.2f", payment.Amount),
		"currency":          payment.Currency,
		"key":               os.Getenv("RAZORPAY_KEY"),
		"enrollment_id":     enrollment.ID,
		"user": gin.H{
			"name":  enrollment.Name,
			"email": enrollment.Email,
		},
	})
}

// VerifyRazorpayPayment checks the signature Razorpay hands the client
// after a successful card payment and finalizes the enrollment.
func VerifyRazorpayPayment(c *gin.Context) {
	utils.LogInfo("VerifyRazorpayPayment called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.RazorpaySignature {
		utils.LogError("Razorpay signature mismatch for order %s, user ID: %d", req.RazorpayOrderID, user.ID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}
	utils.LogInfo("Razorpay signature verified for order %s", req.RazorpayOrderID)

	var payment models.Payment
	if err := config.DB.Where("transaction_id = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
		utils.LogError("Payment not found for Razorpay order %s: %v", req.RazorpayOrderID, err)
		utils.NotFound(c, "Payment not found")
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Where("id = ? AND user_id = ?", payment.EnrollmentID, user.ID).First(&enrollment).Error; err != nil {
		utils.LogError("Enrollment ID: %d does not belong to user ID: %d", payment.EnrollmentID, user.ID)
		utils.NotFound(c, "Enrollment not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for payment ID: %d: %v", payment.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	gatewayPayload := fmt.Sprintf(`{"razorpay_order_id":%q,"razorpay_payment_id":%q}`, req.RazorpayOrderID, req.RazorpayPaymentID)
	invoice, err := finalizeSuccessfulPayment(tx, &payment, gatewayPayload)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to finalize payment ID: %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to complete enrollment", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for payment ID: %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	go notifyEnrollmentCompleted(payment.EnrollmentID, invoice)

	utils.Success(c, "Thank you for your payment! Your enrollment is confirmed.", gin.H{
		"enrollment_id":  payment.EnrollmentID,
		"payment_id":     payment.ID,
		"amount":         fmt.Sprintf("%.2f", payment.Amount),
		"invoice_number": invoice.InvoiceNumber,
		"access_code":    invoice.AccessCode,
	})
}
