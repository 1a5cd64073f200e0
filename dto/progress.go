package dto

import "time"

type UpdateProgressRequest struct {
	EnrollmentID string `json:"enrollmentId" validate:"required" example:"0190f0b2-7c1e-7a51-9f1b-8f3e2d1c0b9a"`
	LessonID     string `json:"lessonId" validate:"required" example:"0190f0b2-7c1e-7a51-9f1b-8f3e2d1c0b9b"`
	Completed    bool   `json:"completed" example:"true"`
	Percentage   *int   `json:"percentage,omitempty" validate:"omitempty,min=0,max=100" example:"100"`
}

type ProgressResponse struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollmentId"`
	LessonID     string    `json:"lessonId"`
	Completed    bool      `json:"completed"`
	Percentage   int       `json:"percentage"`
	LastActivity time.Time `json:"lastActivity"`
}

type UpdateProgressResponse struct {
	Progress        ProgressResponse `json:"progress"`
	OverallProgress int              `json:"overallProgress" example:"75"`
}

// CourseCompletion is the aggregate completion of one enrollment.
type CourseCompletion struct {
	Completed  int64 `json:"completedLessons"`
	Total      int64 `json:"totalLessons"`
	Percentage int   `json:"progress"`
}

// LearnerActivity is the input of achievement evaluation.
type LearnerActivity struct {
	CompletedLessons int64
	CoursesStarted   int64
}
