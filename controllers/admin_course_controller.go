package controllers

import (
	"fmt"
	"strings"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// CreateCourseRequest represents the course creation payload
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Batch       string  `json:"batch" binding:"required"`
	TeacherID   uint    `json:"teacher_id" binding:"required"`
	ImageURL    string  `json:"image_url"`
}

// CreateCourse handles course creation by admins
func CreateCourse(c *gin.Context) {
	utils.LogInfo("CreateCourse called")

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))

	var teacher models.Teacher
	if err := config.DB.First(&teacher, req.TeacherID).Error; err != nil {
		utils.LogError("Teacher not found for ID: %d", req.TeacherID)
		utils.BadRequest(c, "Teacher not found", nil)
		return
	}

	var existing int64
	config.DB.Model(&models.Course{}).Where("slug = ?", req.Slug).Count(&existing)
	if existing > 0 {
		utils.LogError("Course slug already exists: %s", req.Slug)
		utils.Conflict(c, "A course with this slug already exists", nil)
		return
	}

	course := models.Course{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       utils.RoundMoney(req.Price),
		Batch:       req.Batch,
		TeacherID:   req.TeacherID,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}

	if err := config.DB.Create(&course).Error; err != nil {
		utils.LogError("Failed to create course: %v", err)
		utils.InternalServerError(c, "Failed to create course", nil)
		return
	}

	utils.LogInfo("Course created successfully: %s (ID: %d)", course.Title, course.ID)
	utils.Created(c, "Course created successfully", gin.H{
		"id":    course.ID,
		"title": course.Title,
		"slug":  course.Slug,
		"price": fmt.Sprintf("%.2f", course.Price),
	})
}

// UpdateCourseRequest represents partial course updates
type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Batch       *string  `json:"batch"`
	TeacherID   *uint    `json:"teacher_id"`
	ImageURL    *string  `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateCourse handles partial course updates by admins
func UpdateCourse(c *gin.Context) {
	utils.LogInfo("UpdateCourse called")

	courseID := c.Param("id")

	var course models.Course
	if err := config.DB.First(&course, courseID).Error; err != nil {
		utils.LogError("Course not found for ID: %s", courseID)
		utils.NotFound(c, "Course not found")
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.BadRequest(c, "Price must be greater than zero", nil)
			return
		}
		updates["price"] = utils.RoundMoney(*req.Price)
	}
	if req.Batch != nil {
		updates["batch"] = *req.Batch
	}
	if req.TeacherID != nil {
		var teacher models.Teacher
		if err := config.DB.First(&teacher, *req.TeacherID).Error; err != nil {
			utils.BadRequest(c, "Teacher not found", nil)
			return
		}
		updates["teacher_id"] = *req.TeacherID
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&course).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update course ID: %s: %v", courseID, err)
		utils.InternalServerError(c, "Failed to update course", nil)
		return
	}

	utils.LogInfo("Course updated successfully: ID %s", courseID)
	utils.Success(c, "Course updated successfully", gin.H{
		"id":        course.ID,
		"title":     course.Title,
		"is_active": course.IsActive,
	})
}

// DeleteCourse soft deletes a course. Existing enrollments keep working.
func DeleteCourse(c *gin.Context) {
	utils.LogInfo("DeleteCourse called")

	courseID := c.Param("id")

	var course models.Course
	if err := config.DB.First(&course, courseID).Error; err != nil {
		utils.LogError("Course not found for ID: %s", courseID)
		utils.NotFound(c, "Course not found")
		return
	}

	if err := config.DB.Delete(&course).Error; err != nil {
		utils.LogError("Failed to delete course ID: %s: %v", courseID, err)
		utils.InternalServerError(c, "Failed to delete course", nil)
		return
	}

	utils.LogInfo("Course deleted successfully: ID %s", courseID)
	utils.Success(c, "Course deleted successfully", nil)
}

// GetAdminCourses returns all courses including inactive ones for admins
func GetAdminCourses(c *gin.Context) {
	utils.LogInfo("GetAdminCourses called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Course{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count courses: %v", err)
		utils.InternalServerError(c, "Failed to count courses", nil)
		return
	}

	var courses []models.Course
	if err := config.DB.Preload("Teacher").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch courses: %v", err)
		utils.InternalServerError(c, "Failed to fetch courses", nil)
		return
	}

	results := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		var enrolled int64
		config.DB.Model(&models.Enrollment{}).
			Where("course_id = ? AND status = ?", course.ID, models.EnrollmentStatusCompleted).
			Count(&enrolled)
		results = append(results, gin.H{
			"id":             course.ID,
			"title":          course.Title,
			"slug":           course.Slug,
			"price":          fmt.Sprintf("%.2f", course.Price),
			"batch":          course.Batch,
			"teacher_name":   course.Teacher.Name,
			"is_active":      course.IsActive,
			"enrolled_count": enrolled,
			"created_at":     course.CreatedAt,
		})
	}

	utils.SuccessWithPagination(c, "Courses retrieved successfully", results, total, pagination.Page, pagination.Limit)
}
