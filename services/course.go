package services

import (
	"context"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
	"gorm.io/datatypes"
)

const (
	COURSE_SVC = "course_svc"

	catalogCacheKey        = "catalog:courses"
	defaultCatalogCacheTTL = 5 * time.Minute
)

// CatalogCache is the read-through cache in front of the course list.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type CourseService struct {
	appContext.DefaultService

	db          Database
	cache       CatalogCache
	cacheTTL    time.Duration
	courses     *repositories.CourseRepository
	enrollments *repositories.EnrollmentRepository
}

func (svc CourseService) Id() string {
	return COURSE_SVC
}

func (svc *CourseService) Configure(ctx *appContext.Context) error {
	svc.cacheTTL = defaultCatalogCacheTTL
	if v := getEnv("CATALOG_CACHE_TTL", ""); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			svc.cacheTTL = ttl
		}
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *CourseService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)
	svc.courses = repositories.NewCourseRepository(svc.db.Db())
	svc.enrollments = repositories.NewEnrollmentRepository(svc.db.Db())
	return nil
}

func (svc *CourseService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	var cached []dto.CourseResponse
	if svc.cache != nil {
		hit, err := svc.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err != nil && err != ErrRedisDisabled {
			log.WithError(err).Warn("Catalog cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	dbCtx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	courses, err := svc.courses.ListCourses(dbCtx)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	res := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		res = append(res, toCourseResponse(&courses[i]))
	}

	if svc.cache != nil {
		if err := svc.cache.SetJSON(ctx, catalogCacheKey, res, svc.cacheTTL); err != nil && err != ErrRedisDisabled {
			log.WithError(err).Warn("Catalog cache write failed")
		}
	}
	return res, nil
}

func (svc *CourseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	course, err := svc.courses.GetCourse(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Course not found")
		}
		return nil, svc.db.HandleError(err)
	}

	res := toCourseResponse(course)
	return &res, nil
}

// Enroll creates the learner's enrollment or returns the existing one. The bool
// reports whether a new enrollment was created.
func (svc *CourseService) Enroll(ctx context.Context, userID, courseID string) (*dto.EnrollmentResponse, bool, error) {
	if userID == "" {
		return nil, false, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	if strings.TrimSpace(courseID) == "" {
		return nil, false, shared.NewBadRequestError(nil, "Course ID is required")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	return enroll(ctx, svc.db, svc.courses, svc.enrollments, userID, courseID)
}

func enroll(ctx context.Context, db Database, courses *repositories.CourseRepository, enrollments *repositories.EnrollmentRepository, userID, courseID string) (*dto.EnrollmentResponse, bool, error) {
	exists, err := courses.CourseExists(ctx, courseID)
	if err != nil {
		return nil, false, db.HandleError(err)
	}
	if !exists {
		return nil, false, shared.NewNotFoundError(nil, "Course not found")
	}

	enrollment, created, err := enrollments.CreateEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, false, db.HandleError(err)
	}

	if created {
		log.WithFields(log.Fields{"user_id": userID, "course_id": courseID}).Info("Learner enrolled")
	}

	res := toEnrollmentResponse(enrollment)
	return &res, created, nil
}

func (svc *CourseService) ListEnrolled(ctx context.Context, userID string) ([]dto.EnrolledCourseResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	enrollments, err := svc.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	res := make([]dto.EnrolledCourseResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		completion, err := courseCompletion(ctx, svc.courses, svc.enrollments, e)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}

		item := dto.EnrolledCourseResponse{
			EnrollmentID:     e.ID,
			ID:               e.CourseID,
			Progress:         completion.Percentage,
			TotalLessons:     completion.Total,
			CompletedLessons: completion.Completed,
		}
		if e.Course != nil {
			item.Title = e.Course.Title
			item.Description = e.Course.Description
			item.ImageURL = e.Course.ImageURL
		}
		res = append(res, item)
	}
	return res, nil
}

// GetLesson returns lesson content to an enrolled learner along with their progress.
func (svc *CourseService) GetLesson(ctx context.Context, userID, lessonID string) (*dto.LessonDetailResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	lesson, module, err := svc.courses.GetLesson(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Lesson not found")
		}
		return nil, svc.db.HandleError(err)
	}

	enrollment, err := svc.enrollments.GetByUserAndCourse(ctx, userID, module.CourseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewForbiddenError(nil, "Not enrolled in this course")
		}
		return nil, svc.db.HandleError(err)
	}

	res := &dto.LessonDetailResponse{
		ID:           lesson.ID,
		Title:        lesson.Title,
		Content:      lesson.Content,
		Order:        lesson.Order,
		Duration:     lesson.Duration,
		ModuleID:     module.ID,
		ModuleTitle:  module.Title,
		CourseID:     module.CourseID,
		EnrollmentID: enrollment.ID,
	}
	if enrollment.Course != nil {
		res.CourseTitle = enrollment.Course.Title
	}

	progress, err := svc.enrollments.GetProgress(ctx, enrollment.ID, lesson.ID)
	switch {
	case err == nil:
		p := toProgressResponse(progress)
		res.Progress = &p
	case !repositories.IsNotFound(err):
		return nil, svc.db.HandleError(err)
	}
	return res, nil
}

// InvalidateCatalog drops the cached course list.
func (svc *CourseService) InvalidateCatalog(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, catalogCacheKey); err != nil && err != ErrRedisDisabled {
		log.WithError(err).Warn("Catalog cache invalidation failed")
	}
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	res := dto.CourseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		ImageURL:      c.ImageURL,
		Level:         c.Level,
		Duration:      c.Duration,
		Language:      c.Language,
		Prerequisites: stringList(c.Prerequisites),
		Objectives:    stringList(c.Objectives),
		Modules:       make([]dto.ModuleResponse, 0, len(c.Modules)),
		CreatedAt:     c.CreatedAt,
	}
	for _, m := range c.Modules {
		module := dto.ModuleResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			Lessons:     make([]dto.LessonSummary, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			module.Lessons = append(module.Lessons, dto.LessonSummary{
				ID:       l.ID,
				Title:    l.Title,
				Order:    l.Order,
				Duration: l.Duration,
			})
		}
		res.Modules = append(res.Modules, module)
	}
	return res
}

func stringList(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func toEnrollmentResponse(e *model.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:        e.ID,
		CourseID:  e.CourseID,
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
	}
}
