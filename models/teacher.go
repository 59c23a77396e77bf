package models

import (
	"time"

	"gorm.io/gorm"
)

// Teacher is an instructor profile shown on course pages, managed by admins.
type Teacher struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `json:"name"`
	Designation string         `json:"designation"`
	Institution string         `json:"institution"`
	Bio         string         `json:"bio"`
	Email       string         `json:"email"`
	PhotoURL    string         `json:"photo_url"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
