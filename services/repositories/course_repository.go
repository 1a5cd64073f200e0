package repositories

import (
	"context"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
)

// CourseRepository reads the course catalog.
type CourseRepository struct {
	BaseRepository
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func orderedModules(db *gorm.DB) *gorm.DB {
	return db.Order("modules.position ASC")
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("lessons.position ASC")
}

func lessonOutline(db *gorm.DB) *gorm.DB {
	return db.Select("id", "module_id", "title", "position", "duration").Order("lessons.position ASC")
}

func (r *CourseRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.conn(ctx).
		Preload("Modules", orderedModules).
		Preload("Modules.Lessons", lessonOutline).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.conn(ctx).
		Preload("Modules", orderedModules).
		Preload("Modules.Lessons", lessonOutline).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) CourseExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) GetCoursesByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Course{}).Count(&count).Error
	return count, err
}

// GetLesson returns the lesson together with its module.
func (r *CourseRepository) GetLesson(ctx context.Context, id string) (*model.Lesson, *model.Module, error) {
	var lesson model.Lesson
	if err := r.conn(ctx).Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, nil, err
	}

	var module model.Module
	if err := r.conn(ctx).Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, nil, err
	}

	return &lesson, &module, nil
}

// LessonBelongsToCourse reports whether the lesson sits in one of the course's modules.
func (r *CourseRepository) LessonBelongsToCourse(ctx context.Context, lessonID, courseID string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ? AND modules.course_id = ?", lessonID, courseID).
		Count(&count).Error
	return count > 0, err
}

// CountLessons counts every lesson across all modules of the course.
func (r *CourseRepository) CountLessons(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = NewID()
	}
	for i := range course.Modules {
		if course.Modules[i].ID == "" {
			course.Modules[i].ID = NewID()
		}
		for j := range course.Modules[i].Lessons {
			if course.Modules[i].Lessons[j].ID == "" {
				course.Modules[i].Lessons[j].ID = NewID()
			}
		}
	}
	return r.conn(ctx).Create(course).Error
}
