package controllers

import (
	"fmt"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// GetCourses returns the public catalog of active courses
func GetCourses(c *gin.Context) {
	utils.LogInfo("GetCourses called")

	pagination := utils.NewPagination(c)
	search := c.Query("search")

	query := config.DB.Model(&models.Course{}).Where("is_active = ?", true)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count courses: %v", err)
		utils.InternalServerError(c, "Failed to count courses", nil)
		return
	}

	var courses []models.Course
	if err := query.Preload("Teacher").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch courses: %v", err)
		utils.InternalServerError(c, "Failed to fetch courses", nil)
		return
	}

	results := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		results = append(results, gin.H{
			"id":           course.ID,
			"title":        course.Title,
			"slug":         course.Slug,
			"price":        fmt.Sprintf("%.2f", course.Price),
			"batch":        course.Batch,
			"image_url":    course.ImageURL,
			"teacher_name": course.Teacher.Name,
		})
	}

	utils.SuccessWithPagination(c, "Courses retrieved successfully", results, total, pagination.Page, pagination.Limit)
}

// GetCourseDetails returns one active course by slug
func GetCourseDetails(c *gin.Context) {
	slug := c.Param("slug")
	utils.LogInfo("GetCourseDetails called for slug: %s", slug)

	var course models.Course
	if err := config.DB.Preload("Teacher").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&course).Error; err != nil {
		utils.LogError("Course not found for slug: %s", slug)
		utils.NotFound(c, "Course not found")
		return
	}

	utils.Success(c, "Course retrieved successfully", gin.H{
		"id":          course.ID,
		"title":       course.Title,
		"slug":        course.Slug,
		"description": course.Description,
		"price":       fmt.Sprintf("%.2f", course.Price),
		"batch":       course.Batch,
		"image_url":   course.ImageURL,
		"teacher": gin.H{
			"id":          course.Teacher.ID,
			"name":        course.Teacher.Name,
			"designation": course.Teacher.Designation,
			"institution": course.Teacher.Institution,
		},
	})
}
