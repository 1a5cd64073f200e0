package services

import (
	"context"
	"math"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
)

// AchievementTrigger schedules a best-effort achievement evaluation for a learner.
type AchievementTrigger interface {
	Trigger(userID string)
}

type ProgressService struct {
	appContext.DefaultService

	db          Database
	courses     *repositories.CourseRepository
	enrollments *repositories.EnrollmentRepository
	trigger     AchievementTrigger
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.courses = repositories.NewCourseRepository(svc.db.Db())
	svc.enrollments = repositories.NewEnrollmentRepository(svc.db.Db())
	svc.trigger = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	return nil
}

// UpdateProgress records the lesson state, recomputes the course percentage and
// schedules achievement evaluation. Evaluation never affects the result.
func (svc *ProgressService) UpdateProgress(ctx context.Context, userID string, req dto.UpdateProgressRequest) (*dto.UpdateProgressResponse, error) {
	progress, enrollment, err := svc.RecordProgress(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	completion, err := svc.completionFor(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	progressUpdatesTotal.WithLabelValues(completedLabel(progress.Completed)).Inc()

	if svc.trigger != nil {
		svc.trigger.Trigger(userID)
	}

	return &dto.UpdateProgressResponse{
		Progress:        toProgressResponse(progress),
		OverallProgress: completion.Percentage,
	}, nil
}

// RecordProgress upserts the (enrollment, lesson) record after checking ownership.
func (svc *ProgressService) RecordProgress(ctx context.Context, userID string, req dto.UpdateProgressRequest) (*model.Progress, *model.Enrollment, error) {
	if userID == "" {
		return nil, nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	if err := validateRequest(req); err != nil {
		return nil, nil, err
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	enrollment, err := svc.enrollments.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil, shared.NewNotFoundError(nil, "Enrollment not found")
		}
		return nil, nil, svc.db.HandleError(err)
	}
	if enrollment.UserID != userID {
		log.WithFields(log.Fields{
			"enrollment_id": enrollment.ID,
			"user_id":       userID,
		}).Warn("Progress update for enrollment owned by another learner")
		return nil, nil, shared.NewNotFoundError(nil, "Enrollment does not belong to the current user")
	}

	belongs, err := svc.courses.LessonBelongsToCourse(ctx, req.LessonID, enrollment.CourseID)
	if err != nil {
		return nil, nil, svc.db.HandleError(err)
	}
	if !belongs {
		return nil, nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	percentage := 0
	if req.Percentage != nil {
		percentage = *req.Percentage
	}
	if req.Completed {
		percentage = 100
	}

	progress, err := svc.enrollments.UpsertProgress(ctx, &model.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     req.LessonID,
		Completed:    req.Completed,
		Percentage:   percentage,
	})
	if err != nil {
		return nil, nil, svc.db.HandleError(err)
	}

	log.WithFields(log.Fields{
		"enrollment_id": enrollment.ID,
		"lesson_id":     req.LessonID,
		"completed":     progress.Completed,
		"percentage":    progress.Percentage,
	}).Debug("Progress recorded")

	return progress, enrollment, nil
}

// CourseProgress computes the completion of the enrollment's course from current store state.
func (svc *ProgressService) CourseProgress(ctx context.Context, enrollmentID string) (*dto.CourseCompletion, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	enrollment, err := svc.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Enrollment not found")
		}
		return nil, svc.db.HandleError(err)
	}
	return svc.completionFor(ctx, enrollment)
}

func (svc *ProgressService) completionFor(ctx context.Context, enrollment *model.Enrollment) (*dto.CourseCompletion, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	completion, err := courseCompletion(ctx, svc.courses, svc.enrollments, enrollment)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return completion, nil
}

// courseCompletion is shared by progress, enrollment listing and certificate issuance.
func courseCompletion(ctx context.Context, courses *repositories.CourseRepository, enrollments *repositories.EnrollmentRepository, enrollment *model.Enrollment) (*dto.CourseCompletion, error) {
	total, err := courses.CountLessons(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := enrollments.CountCompleted(ctx, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	return &dto.CourseCompletion{
		Completed:  completed,
		Total:      total,
		Percentage: completionPercentage(completed, total),
	}, nil
}

// completionPercentage returns round(completed/total*100), 0 for an empty course.
func completionPercentage(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func completedLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "in_progress"
}

func toProgressResponse(p *model.Progress) dto.ProgressResponse {
	return dto.ProgressResponse{
		ID:           p.ID,
		EnrollmentID: p.EnrollmentID,
		LessonID:     p.LessonID,
		Completed:    p.Completed,
		Percentage:   p.Percentage,
		LastActivity: p.LastActivity,
	}
}

func validateRequest(v interface{}) error {
	if err := dto.Validate(v); err != nil {
		return shared.NewValidationError(err, "Validation failed", dto.FormatValidationErrors(err))
	}
	return nil
}
