package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GetInvoice returns the invoice for one of the user's enrollments
func GetInvoice(c *gin.Context) {
	utils.LogInfo("GetInvoice called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	invoiceNumber := c.Param("number")

	var invoice models.Invoice
	if err := config.DB.Where("invoice_number = ?", invoiceNumber).First(&invoice).Error; err != nil {
		utils.LogError("Invoice not found: %s", invoiceNumber)
		utils.NotFound(c, "Invoice not found")
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Preload("Course").
		Where("id = ? AND user_id = ?", invoice.EnrollmentID, user.ID).
		First(&enrollment).Error; err != nil {
		utils.LogError("Invoice %s does not belong to user ID: %d", invoiceNumber, user.ID)
		utils.NotFound(c, "Invoice not found")
		return
	}

	var payment models.Payment
	config.DB.First(&payment, invoice.PaymentID)

	utils.Success(c, "Invoice retrieved successfully", gin.H{
		"invoice_number": invoice.InvoiceNumber,
		"access_code":    invoice.AccessCode,
		"status":         invoice.Status,
		"amount":         fmt.Sprintf("%.2f", invoice.Amount),
		"course_title":   enrollment.Course.Title,
		"batch":          enrollment.Course.Batch,
		"payment_method": payment.Method,
		"transaction_id": payment.TransactionID,
		"issued_at":      invoice.CreatedAt,
	})
}

// DownloadInvoice generates and returns a PDF invoice for the enrollment
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("Starting invoice download process")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("Unauthorized invoice download attempt - no user found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("User authenticated for invoice download: %s", user.Email)

	invoiceNumber := c.Param("number")

	var invoice models.Invoice
	if err := config.DB.Where("invoice_number = ?", invoiceNumber).First(&invoice).Error; err != nil {
		utils.LogError("Invoice not found for download: %s", invoiceNumber)
		utils.NotFound(c, "Invoice not found")
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Preload("Course").
		Where("id = ? AND user_id = ?", invoice.EnrollmentID, user.ID).
		First(&enrollment).Error; err != nil {
		utils.LogError("Invoice %s does not belong to user ID: %d", invoiceNumber, user.ID)
		utils.NotFound(c, "Invoice not found")
		return
	}

	var payment models.Payment
	config.DB.First(&payment, invoice.PaymentID)

	coursePrice := enrollment.Course.Price
	discount := utils.RoundMoney(coursePrice - invoice.Amount)
	if discount < 0 {
		discount = 0
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Platform info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "CourseDeck")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "House 12, Road 5, Dhanmondi, Dhaka")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@coursedeck.com | Phone: +880-1700-000000")
	pdf.Ln(12)

	// Invoice title and info
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(80, 8, "Invoice No: "+invoice.InvoiceNumber)
	pdf.Cell(60, 8, "Date: "+invoice.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(80, 8, "Payment Method: "+payment.Method)
	pdf.Cell(60, 8, "Transaction: "+payment.TransactionID)
	pdf.Ln(10)

	// Student info
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, enrollment.Name)
	pdf.Ln(6)
	pdf.Cell(100, 8, enrollment.Email)
	pdf.Ln(6)
	pdf.Cell(100, 8, "Phone: "+enrollment.Phone)
	pdf.Ln(6)
	if enrollment.Institution != "" {
		pdf.Cell(100, 8, enrollment.Institution)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Course line
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 8, "Course", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Batch", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price (BDT)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(90, 8, enrollment.Course.Title, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, enrollment.Course.Batch, "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", coursePrice), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	// Summary section
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Course Price:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", coursePrice), "", 1, "R", false, 0, "")
	if discount > 0 {
		pdf.SetFont("Arial", "B", 12)
		label := "Discount:"
		if enrollment.CouponCode != "" {
			label = "Discount (" + enrollment.CouponCode + "):"
		}
		pdf.CellFormat(120, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("-%.2f", discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Amount Paid:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", invoice.Amount), "", 1, "R", false, 0, "")

	// Access code
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Access Code: "+invoice.AccessCode)
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for learning with CourseDeck!")

	var buf bytes.Buffer
	_ = pdf.Output(&buf)
	utils.LogInfo("PDF invoice generated successfully: %s", invoice.InvoiceNumber)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+invoice.InvoiceNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	utils.LogInfo("Invoice download completed: %s", invoice.InvoiceNumber)
}

// GetInvoices returns all invoices for admins
func GetInvoices(c *gin.Context) {
	utils.LogInfo("GetInvoices called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count invoices: %v", err)
		utils.InternalServerError(c, "Failed to count invoices", nil)
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&invoices).Error; err != nil {
		utils.LogError("Failed to fetch invoices: %v", err)
		utils.InternalServerError(c, "Failed to fetch invoices", nil)
		return
	}

	results := make([]gin.H, 0, len(invoices))
	for _, invoice := range invoices {
		results = append(results, gin.H{
			"id":             invoice.ID,
			"invoice_number": invoice.InvoiceNumber,
			"enrollment_id":  invoice.EnrollmentID,
			"payment_id":     invoice.PaymentID,
			"amount":         fmt.Sprintf("%.2f", invoice.Amount),
			"status":         invoice.Status,
			"created_at":     invoice.CreatedAt,
		})
	}

	utils.SuccessWithPagination(c, "Invoices retrieved successfully", results, total, pagination.Page, pagination.Limit)
}
