package repositories

import (
	"context"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentRepository stores enrollments and their per-lesson progress.
type EnrollmentRepository struct {
	BaseRepository
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateEnrollment inserts the enrollment unless (user, course) already exists.
// It returns the stored row and whether this call created it.
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, userID, courseID string) (*model.Enrollment, bool, error) {
	enrollment := &model.Enrollment{
		ID:        NewID(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}

	res := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return enrollment, true, nil
	}

	existing, err := r.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.conn(ctx).Where("id = ?", id).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.conn(ctx).
		Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.conn(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// UpsertProgress writes the (enrollment, lesson) record, overwriting state on conflict.
func (r *EnrollmentRepository) UpsertProgress(ctx context.Context, progress *model.Progress) (*model.Progress, error) {
	now := time.Now().UTC()
	if progress.ID == "" {
		progress.ID = NewID()
	}
	if progress.LastActivity.IsZero() {
		progress.LastActivity = now
	}
	progress.CreatedAt = now
	progress.UpdatedAt = now

	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "percentage", "last_activity", "updated_at"}),
	}).Create(progress).Error
	if err != nil {
		return nil, err
	}

	return r.GetProgress(ctx, progress.EnrollmentID, progress.LessonID)
}

func (r *EnrollmentRepository) GetProgress(ctx context.Context, enrollmentID, lessonID string) (*model.Progress, error) {
	var progress model.Progress
	err := r.conn(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *EnrollmentRepository) CountProgressRows(ctx context.Context, enrollmentID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Progress{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}

// CountCompleted counts completed progress rows of the enrollment whose lesson belongs to courseID.
func (r *EnrollmentRepository) CountCompleted(ctx context.Context, enrollmentID, courseID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Progress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lesson_progress.enrollment_id = ? AND lesson_progress.completed = ? AND modules.course_id = ?", enrollmentID, true, courseID).
		Count(&count).Error
	return count, err
}

// CountCompletedByUser counts completed lessons across all of the learner's enrollments.
func (r *EnrollmentRepository) CountCompletedByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = lesson_progress.enrollment_id").
		Where("enrollments.user_id = ? AND lesson_progress.completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// CountCoursesStarted counts distinct courses in which the learner has any progress row.
func (r *EnrollmentRepository) CountCoursesStarted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = lesson_progress.enrollment_id").
		Where("enrollments.user_id = ?", userID).
		Distinct("enrollments.course_id").
		Count(&count).Error
	return count, err
}

// LearnersWithActivitySince lists learners with any progress write at or after since.
func (r *EnrollmentRepository) LearnersWithActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	var userIDs []string
	err := r.conn(ctx).Model(&model.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = lesson_progress.enrollment_id").
		Where("lesson_progress.last_activity >= ?", since).
		Distinct("enrollments.user_id").
		Pluck("enrollments.user_id", &userIDs).Error
	return userIDs, err
}
