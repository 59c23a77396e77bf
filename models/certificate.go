package models

import (
	"time"
)

// Certificate is issued by an admin against a completed enrollment and can
// be verified publicly by serial.
type Certificate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID uint      `gorm:"uniqueIndex" json:"enrollment_id"`
	Serial       string    `gorm:"uniqueIndex" json:"serial"`
	StudentName  string    `json:"student_name"`
	CourseTitle  string    `json:"course_title"`
	IssuedBy     uint      `json:"issued_by"`
	IssuedAt     time.Time `json:"issued_at"`
	CreatedAt    time.Time `json:"created_at"`
}
