package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SeedCourse creates a course with modules x lessonsPerModule lessons and returns it with its lessons in order.
func SeedCourse(tb testing.TB, db *gorm.DB, title string, modules, lessonsPerModule int) (*model.Course, []model.Lesson) {
	tb.Helper()

	course := &model.Course{
		ID:        newID(),
		Title:     title,
		Price:     29.99,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}

	var lessons []model.Lesson
	for m := 1; m <= modules; m++ {
		module := &model.Module{
			ID:       newID(),
			CourseID: course.ID,
			Title:    fmt.Sprintf("%s module %d", title, m),
			Order:    m,
		}
		if err := db.Create(module).Error; err != nil {
			tb.Fatalf("seed module: %v", err)
		}
		for l := 1; l <= lessonsPerModule; l++ {
			lesson := model.Lesson{
				ID:       newID(),
				ModuleID: module.ID,
				Title:    fmt.Sprintf("%s lesson %d.%d", title, m, l),
				Order:    l,
				Duration: 30,
			}
			if err := db.Create(&lesson).Error; err != nil {
				tb.Fatalf("seed lesson: %v", err)
			}
			lessons = append(lessons, lesson)
		}
	}
	return course, lessons
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, userID, courseID string) *model.Enrollment {
	tb.Helper()
	enrollment := &model.Enrollment{
		ID:        newID(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(enrollment).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return enrollment
}

func SeedUser(tb testing.TB, db *gorm.DB, userID, email, name string) *model.User {
	tb.Helper()
	user := &model.User{ID: userID, Email: email, Name: name, Role: "STUDENT"}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedCompleted marks the lessons completed for the enrollment.
func SeedCompleted(tb testing.TB, db *gorm.DB, enrollmentID string, lessons ...model.Lesson) {
	tb.Helper()
	now := time.Now().UTC()
	for _, lesson := range lessons {
		p := &model.Progress{
			ID:           newID(),
			EnrollmentID: enrollmentID,
			LessonID:     lesson.ID,
			Completed:    true,
			Percentage:   100,
			LastActivity: now,
		}
		if err := db.Create(p).Error; err != nil {
			tb.Fatalf("seed progress: %v", err)
		}
	}
}
