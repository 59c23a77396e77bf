package controllers

import (
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// IssueCertificateRequest identifies the enrollment to certify
type IssueCertificateRequest struct {
	EnrollmentID uint `json:"enrollment_id" binding:"required"`
}

// IssueCertificate creates a certificate for a completed enrollment. Issuing
// twice for the same enrollment returns the existing certificate.
func IssueCertificate(c *gin.Context) {
	utils.LogInfo("IssueCertificate called")

	adminVal, exists := c.Get("admin")
	if !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	var req IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Preload("Course").First(&enrollment, req.EnrollmentID).Error; err != nil {
		utils.LogError("Enrollment not found for ID: %d", req.EnrollmentID)
		utils.NotFound(c, "Enrollment not found")
		return
	}

	if enrollment.Status != models.EnrollmentStatusCompleted {
		utils.LogError("Cannot certify incomplete enrollment ID: %d", enrollment.ID)
		utils.BadRequest(c, "Only completed enrollments can be certified", nil)
		return
	}

	var existing models.Certificate
	if err := config.DB.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error; err == nil {
		utils.LogInfo("Certificate already issued for enrollment ID: %d", enrollment.ID)
		utils.Success(c, "Certificate already issued", gin.H{
			"serial":       existing.Serial,
			"student_name": existing.StudentName,
			"course_title": existing.CourseTitle,
			"issued_at":    existing.IssuedAt,
		})
		return
	}

	now := time.Now()
	certificate := models.Certificate{
		EnrollmentID: enrollment.ID,
		Serial:       utils.GenerateCertificateSerial(enrollment.ID, now),
		StudentName:  enrollment.Name,
		CourseTitle:  enrollment.Course.Title,
		IssuedBy:     admin.ID,
		IssuedAt:     now,
	}

	if err := config.DB.Create(&certificate).Error; err != nil {
		utils.LogError("Failed to create certificate for enrollment ID: %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to issue certificate", nil)
		return
	}

	utils.LogInfo("Certificate %s issued for enrollment ID: %d by admin ID: %d", certificate.Serial, enrollment.ID, admin.ID)
	utils.Created(c, "Certificate issued successfully", gin.H{
		"serial":       certificate.Serial,
		"student_name": certificate.StudentName,
		"course_title": certificate.CourseTitle,
		"issued_at":    certificate.IssuedAt,
	})
}

// VerifyCertificate is the public lookup used by employers to confirm a
// certificate serial is genuine
func VerifyCertificate(c *gin.Context) {
	serial := c.Param("serial")
	utils.LogInfo("VerifyCertificate called for serial: %s", serial)

	var certificate models.Certificate
	if err := config.DB.Where("serial = ?", serial).First(&certificate).Error; err != nil {
		utils.LogError("Certificate not found for serial: %s", serial)
		utils.NotFound(c, "Certificate not found")
		return
	}

	utils.Success(c, "Certificate verified", gin.H{
		"serial":       certificate.Serial,
		"student_name": certificate.StudentName,
		"course_title": certificate.CourseTitle,
		"issued_at":    certificate.IssuedAt,
	})
}
