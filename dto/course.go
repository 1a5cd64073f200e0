package dto

import "time"

type LessonSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Duration int    `json:"duration"`
}

type ModuleResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Lessons     []LessonSummary `json:"lessons"`
}

type CourseResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	ImageURL      string           `json:"imageUrl"`
	Level         string           `json:"level,omitempty"`
	Duration      int              `json:"duration,omitempty"`
	Language      string           `json:"language,omitempty"`
	Prerequisites []string         `json:"prerequisites"`
	Objectives    []string         `json:"objectives"`
	Modules       []ModuleResponse `json:"modules"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type EnrollmentResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type EnrolledCourseResponse struct {
	EnrollmentID     string `json:"enrollmentId"`
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl"`
	Progress         int    `json:"progress"`
	TotalLessons     int64  `json:"totalLessons"`
	CompletedLessons int64  `json:"completedLessons"`
}

type LessonDetailResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Order        int               `json:"order"`
	Duration     int               `json:"duration"`
	ModuleID     string            `json:"moduleId"`
	ModuleTitle  string            `json:"moduleTitle"`
	CourseID     string            `json:"courseId"`
	CourseTitle  string            `json:"courseTitle"`
	EnrollmentID string            `json:"enrollmentId"`
	Progress     *ProgressResponse `json:"progress,omitempty"`
}
