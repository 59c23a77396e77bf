package controllers

import (
	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-gonic/gin"
)

// CreateTeacherRequest represents the instructor profile payload
type CreateTeacherRequest struct {
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation"`
	Institution string `json:"institution"`
	Bio         string `json:"bio"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
}

// CreateTeacher handles instructor profile creation by admins
func CreateTeacher(c *gin.Context) {
	utils.LogInfo("CreateTeacher called")

	var req CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if valid, msg := utils.ValidateName(req.Name); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if req.Email != "" {
		if valid, msg := utils.ValidateEmail(req.Email); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
	}

	teacher := models.Teacher{
		Name:        req.Name,
		Designation: req.Designation,
		Institution: req.Institution,
		Bio:         req.Bio,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
		IsActive:    true,
	}

	if err := config.DB.Create(&teacher).Error; err != nil {
		utils.LogError("Failed to create teacher: %v", err)
		utils.InternalServerError(c, "Failed to create teacher", nil)
		return
	}

	utils.LogInfo("Teacher created successfully: %s (ID: %d)", teacher.Name, teacher.ID)
	utils.Created(c, "Teacher created successfully", gin.H{
		"id":   teacher.ID,
		"name": teacher.Name,
	})
}

// UpdateTeacherRequest represents partial instructor profile updates
type UpdateTeacherRequest struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Institution *string `json:"institution"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email"`
	PhotoURL    *string `json:"photo_url"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateTeacher handles partial instructor profile updates by admins
func UpdateTeacher(c *gin.Context) {
	utils.LogInfo("UpdateTeacher called")

	teacherID := c.Param("id")

	var teacher models.Teacher
	if err := config.DB.First(&teacher, teacherID).Error; err != nil {
		utils.LogError("Teacher not found for ID: %s", teacherID)
		utils.NotFound(c, "Teacher not found")
		return
	}

	var req UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if valid, msg := utils.ValidateName(*req.Name); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
		updates["name"] = *req.Name
	}
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Institution != nil {
		updates["institution"] = *req.Institution
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Email != nil {
		if *req.Email != "" {
			if valid, msg := utils.ValidateEmail(*req.Email); !valid {
				utils.BadRequest(c, msg, nil)
				return
			}
		}
		updates["email"] = *req.Email
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = *req.PhotoURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&teacher).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update teacher ID: %s: %v", teacherID, err)
		utils.InternalServerError(c, "Failed to update teacher", nil)
		return
	}

	utils.LogInfo("Teacher updated successfully: ID %s", teacherID)
	utils.Success(c, "Teacher updated successfully", gin.H{
		"id":   teacher.ID,
		"name": teacher.Name,
	})
}

// DeleteTeacher soft deletes an instructor profile. Courses keep the
// reference; they show no instructor until reassigned.
func DeleteTeacher(c *gin.Context) {
	utils.LogInfo("DeleteTeacher called")

	teacherID := c.Param("id")

	var teacher models.Teacher
	if err := config.DB.First(&teacher, teacherID).Error; err != nil {
		utils.LogError("Teacher not found for ID: %s", teacherID)
		utils.NotFound(c, "Teacher not found")
		return
	}

	if err := config.DB.Delete(&teacher).Error; err != nil {
		utils.LogError("Failed to delete teacher ID: %s: %v", teacherID, err)
		utils.InternalServerError(c, "Failed to delete teacher", nil)
		return
	}

	utils.LogInfo("Teacher deleted successfully: ID %s", teacherID)
	utils.Success(c, "Teacher deleted successfully", nil)
}

// GetTeachers returns all instructor profiles for admins
func GetTeachers(c *gin.Context) {
	utils.LogInfo("GetTeachers called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Teacher{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count teachers: %v", err)
		utils.InternalServerError(c, "Failed to count teachers", nil)
		return
	}

	var teachers []models.Teacher
	if err := config.DB.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&teachers).Error; err != nil {
		utils.LogError("Failed to fetch teachers: %v", err)
		utils.InternalServerError(c, "Failed to fetch teachers", nil)
		return
	}

	utils.SuccessWithPagination(c, "Teachers retrieved successfully", teachers, total, pagination.Page, pagination.Limit)
}
