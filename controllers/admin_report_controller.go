package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// revenueSummary aggregates completed payments over a reporting period
type revenueSummary struct {
	TotalEnrollments int
	TotalRevenue     float64
	TotalDiscounts   float64
	TotalStudents    int
	AveragePayment   float64
}

func reportPeriodRange(period string, now time.Time) (time.Time, time.Time, bool) {
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		return start, end, true
	case "week":
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		start := end.AddDate(0, 0, -6)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		return start, end, true
	case "month":
		start := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		end := now.Add(24 * time.Hour)
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

type reportRow struct {
	Payment    models.Payment
	Enrollment models.Enrollment
	Discount   float64
}

func collectReportRows(start, end time.Time) ([]reportRow, revenueSummary, error) {
	var payments []models.Payment
	err := config.DB.Where("status = ? AND updated_at >= ? AND updated_at <= ?",
		models.PaymentStatusCompleted, start, end).
		Order("updated_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, revenueSummary{}, err
	}

	var summary revenueSummary
	studentSet := make(map[uint]bool)
	rows := make([]reportRow, 0, len(payments))
	for _, payment := range payments {
		var enrollment models.Enrollment
		if err := config.DB.Preload("Course").First(&enrollment, payment.EnrollmentID).Error; err != nil {
			continue
		}
		discount := utils.RoundMoney(enrollment.Course.Price - payment.Amount)
		if discount < 0 {
			discount = 0
		}
		rows = append(rows, reportRow{Payment: payment, Enrollment: enrollment, Discount: discount})

		summary.TotalEnrollments++
		summary.TotalRevenue += payment.Amount
		summary.TotalDiscounts += discount
		studentSet[enrollment.UserID] = true
	}
	summary.TotalStudents = len(studentSet)
	if summary.TotalEnrollments > 0 {
		summary.AveragePayment = utils.RoundMoney(summary.TotalRevenue / float64(summary.TotalEnrollments))
	}
	summary.TotalRevenue = utils.RoundMoney(summary.TotalRevenue)
	summary.TotalDiscounts = utils.RoundMoney(summary.TotalDiscounts)
	return rows, summary, nil
}

// GetRevenueReport returns the revenue summary for a period as JSON
func GetRevenueReport(c *gin.Context) {
	utils.LogInfo("GetRevenueReport called")

	period := c.DefaultQuery("period", "day")
	start, end, ok := reportPeriodRange(period, time.Now())
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	rows, summary, err := collectReportRows(start, end)
	if err != nil {
		utils.LogError("Failed to fetch payments for report: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", nil)
		return
	}

	details := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		details = append(details, gin.H{
			"payment_id":   row.Payment.ID,
			"course_title": row.Enrollment.Course.Title,
			"student_name": row.Enrollment.Name,
			"method":       row.Payment.Method,
			"amount":       fmt.Sprintf("%.2f", row.Payment.Amount),
			"discount":     fmt.Sprintf("%.2f", row.Discount),
			"coupon_code":  row.Enrollment.CouponCode,
			"paid_at":      row.Payment.UpdatedAt,
		})
	}

	utils.Success(c, "Revenue report generated successfully", gin.H{
		"period": period,
		"from":   start.Format("2006-01-02"),
		"to":     end.Format("2006-01-02"),
		"summary": gin.H{
			"total_enrollments": summary.TotalEnrollments,
			"total_revenue":     fmt.Sprintf("%.2f", summary.TotalRevenue),
			"total_discounts":   fmt.Sprintf("%.2f", summary.TotalDiscounts),
			"total_students":    summary.TotalStudents,
			"average_payment":   fmt.Sprintf("%.2f", summary.AveragePayment),
		},
		"payments": details,
	})
}

// DownloadRevenueReportExcel streams the revenue report as an Excel file
func DownloadRevenueReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadRevenueReportExcel called")

	period := c.DefaultQuery("period", "day")
	start, end, ok := reportPeriodRange(period, time.Now())
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	rows, summary, err := collectReportRows(start, end)
	if err != nil {
		utils.LogError("Failed to fetch payments for Excel report: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", nil)
		return
	}
	utils.LogDebug("Retrieved %d payments for Excel report", len(rows))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Revenue Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString("COURSEDECK - Revenue Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("House 12, Road 5, Dhanmondi, Dhaka")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Email: support@coursedeck.com")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + start.Format("2006-01-02") + " to " + end.Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Payment ID", "Course", "Student", "Method", "Coupon", "Discount", "Amount Paid", "Paid At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().SetInt(int(row.Payment.ID))
		r.AddCell().SetString(row.Enrollment.Course.Title)
		r.AddCell().SetString(row.Enrollment.Name)
		r.AddCell().SetString(row.Payment.Method)
		r.AddCell().SetString(row.Enrollment.CouponCode)
		r.AddCell().SetFloat(row.Discount)
		r.AddCell().SetFloat(row.Payment.Amount)
		r.AddCell().SetString(row.Payment.UpdatedAt.Format("2006-01-02 15:04"))
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Enrollments", fmt.Sprintf("%d", summary.TotalEnrollments)},
		{"Total Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Total Discounts", fmt.Sprintf("%.2f", summary.TotalDiscounts)},
		{"Total Students", fmt.Sprintf("%d", summary.TotalStudents)},
		{"Avg. Payment", fmt.Sprintf("%.2f", summary.AveragePayment)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=revenue_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
	utils.LogInfo("Successfully generated Excel report for period %s", period)
}
