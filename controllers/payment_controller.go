package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// processGatewayValidation asks SSLCommerz about a val_id and, when the
// transaction is confirmed, finalizes the matching payment. Repeat calls
// for an already finalized payment return the existing state.
func processGatewayValidation(valID string) (*models.Payment, *models.Invoice, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, utils.WrapError(err, "failed to load configuration")
	}

	client := utils.NewSSLCommerzClient(cfg.SSLCommerzStoreID, cfg.SSLCommerzStorePass, cfg.SSLCommerzSandbox)
	validation, rawResponse, err := client.ValidateTransaction(valID)
	if err != nil {
		return nil, nil, utils.GatewayError("gateway validation failed", err)
	}

	var payment models.Payment
	if err := config.DB.Where("transaction_id = ?", validation.TransactionID).First(&payment).Error; err != nil {
		return nil, nil, utils.NotFoundError("payment not found for transaction "+validation.TransactionID, err)
	}

	if !validation.Confirmed() {
		utils.LogError("Gateway reported transaction %s as %s", validation.TransactionID, validation.Status)
		// One-way: only a pending payment can move to failed
		config.DB.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":           models.PaymentStatusFailed,
				"gateway_response": rawResponse,
			})
		return &payment, nil, utils.BadRequestError("payment was not confirmed by the gateway", nil)
	}

	// Guard the amount: the gateway's confirmed figure must match what we
	// asked for
	confirmedAmount, err := strconv.ParseFloat(validation.Amount, 64)
	if err != nil || math.Abs(confirmedAmount-payment.Amount) > 0.01 {
		utils.LogError("Amount mismatch for transaction %s: expected %.2f, gateway reported %q", validation.TransactionID, payment.Amount, validation.Amount)
		return &payment, nil, utils.BadRequestError("payment amount mismatch", nil)
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		return nil, nil, utils.WrapError(tx.Error, "failed to start transaction")
	}

	payment.ValID = valID
	invoice, err := finalizeSuccessfulPayment(tx, &payment, rawResponse)
	if err != nil {
		tx.Rollback()
		return &payment, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return &payment, nil, utils.WrapError(err, "failed to commit transaction")
	}

	go notifyEnrollmentCompleted(payment.EnrollmentID, invoice)
	return &payment, invoice, nil
}

// ValidatePaymentRequest represents the request body for validating a
// gateway transaction
type ValidatePaymentRequest struct {
	ValID string `json:"val_id" binding:"required"`
}

// ValidatePayment confirms a gateway transaction by val_id and finalizes
// the enrollment. Calling it twice with the same val_id yields the same
// payment and invoice; nothing is double-applied.
func ValidatePayment(c *gin.Context) {
	utils.LogInfo("ValidatePayment called")

	var req ValidatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Validating gateway transaction with val_id: %s", req.ValID)

	payment, invoice, err := processGatewayValidation(req.ValID)
	if err != nil {
		appErr := utils.GetAppError(err)
		if appErr != nil && appErr.Code == http.StatusBadGateway {
			utils.LogError("Gateway validation error for val_id %s: %v", req.ValID, err)
			utils.InternalServerError(c, "Payment failed, please try again", nil)
			return
		}
		if appErr != nil && appErr.Code == http.StatusNotFound {
			utils.NotFound(c, "Payment not found")
			return
		}
		utils.LogError("Payment validation failed for val_id %s: %v", req.ValID, err)
		utils.BadRequest(c, "Payment could not be confirmed", nil)
		return
	}

	utils.Success(c, "Payment confirmed", gin.H{
		"payment": gin.H{
			"id":             payment.ID,
			"enrollment_id":  payment.EnrollmentID,
			"amount":         fmt.Sprintf("%.2f", payment.Amount),
			"currency":       payment.Currency,
			"method":         payment.Method,
			"status":         payment.Status,
			"transaction_id": payment.TransactionID,
		},
		"invoice": gin.H{
			"invoice_number": invoice.InvoiceNumber,
			"access_code":    invoice.AccessCode,
			"amount":         fmt.Sprintf("%.2f", invoice.Amount),
			"status":         invoice.Status,
		},
	})
}

// PaymentSuccess handles the gateway's browser redirect after a paid
// checkout. The transaction is still validated server side before anything
// is finalized; the redirect alone proves nothing.
func PaymentSuccess(c *gin.Context) {
	utils.LogInfo("PaymentSuccess callback called")

	valID := c.PostForm("val_id")
	tranID := c.PostForm("tran_id")
	utils.LogInfo("Gateway success callback for transaction: %s", tranID)

	cfg, _ := config.LoadConfig()
	frontend := ""
	if cfg != nil {
		frontend = cfg.FrontendURL
	}

	if valID == "" {
		utils.LogError("Success callback missing val_id for transaction: %s", tranID)
		c.Redirect(http.StatusFound, frontend+"/payment/failed")
		return
	}

	_, invoice, err := processGatewayValidation(valID)
	if err != nil {
		utils.LogError("Validation after success callback failed for transaction %s: %v", tranID, err)
		c.Redirect(http.StatusFound, frontend+"/payment/failed")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/payment/success?invoice=%s", frontend, invoice.InvoiceNumber))
}

// PaymentFail handles the gateway's browser redirect for a failed payment
func PaymentFail(c *gin.Context) {
	utils.LogInfo("PaymentFail callback called")

	tranID := c.PostForm("tran_id")
	utils.LogError("Gateway reported failed payment for transaction: %s", tranID)

	if tranID != "" {
		config.DB.Model(&models.Payment{}).
			Where("transaction_id = ? AND status = ?", tranID, models.PaymentStatusPending).
			Update("status", models.PaymentStatusFailed)
	}

	cfg, _ := config.LoadConfig()
	frontend := ""
	if cfg != nil {
		frontend = cfg.FrontendURL
	}
	c.Redirect(http.StatusFound, frontend+"/payment/failed")
}

// PaymentCancel handles the gateway's browser redirect for an abandoned
// checkout. The payment stays pending; there is no automatic expiry.
func PaymentCancel(c *gin.Context) {
	utils.LogInfo("PaymentCancel callback called")

	tranID := c.PostForm("tran_id")
	utils.LogInfo("Buyer cancelled checkout for transaction: %s", tranID)

	cfg, _ := config.LoadConfig()
	frontend := ""
	if cfg != nil {
		frontend = cfg.FrontendURL
	}
	c.Redirect(http.StatusFound, frontend+"/payment/cancelled")
}
