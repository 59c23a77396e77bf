package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `json:"title"`
	Slug        string         `gorm:"uniqueIndex" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `json:"price"` // BDT
	Batch       string         `json:"batch"`
	TeacherID   uint           `json:"teacher_id"`
	Teacher     Teacher        `json:"teacher" gorm:"foreignKey:TeacherID"`
	ImageURL    string         `json:"image_url"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
