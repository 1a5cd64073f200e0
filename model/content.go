package model

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"not null;uniqueIndex;size:255"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"not null;default:0"`
	ImageURL      string         `json:"imageUrl"`
	Level         string         `json:"level" gorm:"size:50"`
	Duration      int            `json:"duration"` // minutes
	Language      string         `json:"language" gorm:"size:50"`
	Prerequisites datatypes.JSON `json:"prerequisites"`
	Objectives    datatypes.JSON `json:"objectives"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CourseID    string    `json:"courseId" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Order       int       `json:"order" gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

type Lesson struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ModuleID  string    `json:"moduleId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Order     int       `json:"order" gorm:"column:position;not null;default:0"`
	Duration  int       `json:"duration"` // minutes
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
