package model

import "time"

// Enrollment links a learner to a course. One per (user, course).
type Enrollment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"not null;uniqueIndex:idx_enrollment_user_course;size:255"`
	CourseID  string    `json:"courseId" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CreatedAt time.Time `json:"createdAt"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// Progress is the per-lesson state of an enrollment. One per (enrollment, lesson).
type Progress struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	EnrollmentID string    `json:"enrollmentId" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID     string    `json:"lessonId" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson;index"`
	Completed    bool      `json:"completed" gorm:"not null;default:false"`
	Percentage   int       `json:"percentage" gorm:"not null;default:0;check:chk_progress_percentage,percentage >= 0 AND percentage <= 100"`
	LastActivity time.Time `json:"lastActivity" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "lesson_progress"
}
