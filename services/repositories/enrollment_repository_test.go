package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEnrollmentIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, _ := testutil.SeedCourse(t, db, "Go Basics", 1, 2)
	repo := repositories.NewEnrollmentRepository(db)

	first, created, err := repo.CreateEnrollment(ctx, "learner-1", course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.CreateEnrollment(ctx, "learner-1", course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertProgressOverwritesSingleRow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, lessons := testutil.SeedCourse(t, db, "Go Basics", 1, 2)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	repo := repositories.NewEnrollmentRepository(db)

	first, err := repo.UpsertProgress(ctx, &model.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Percentage:   40,
	})
	require.NoError(t, err)
	assert.False(t, first.Completed)
	assert.Equal(t, 40, first.Percentage)

	second, err := repo.UpsertProgress(ctx, &model.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Completed:    true,
		Percentage:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, 100, second.Percentage)

	again, err := repo.UpsertProgress(ctx, &model.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Completed:    true,
		Percentage:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, again.ID)
	assert.Equal(t, second.Completed, again.Completed)
	assert.Equal(t, second.Percentage, again.Percentage)

	rows, err := repo.CountProgressRows(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestUpsertProgressConcurrentWritersKeepOneRow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, lessons := testutil.SeedCourse(t, db, "Go Basics", 1, 1)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	repo := repositories.NewEnrollmentRepository(db)

	values := []int{10, 20, 30, 40, 50, 60, 70, 80}
	var wg sync.WaitGroup
	errs := make(chan error, len(values))
	for _, v := range values {
		wg.Add(1)
		go func(pct int) {
			defer wg.Done()
			_, err := repo.UpsertProgress(ctx, &model.Progress{
				EnrollmentID: enrollment.ID,
				LessonID:     lessons[0].ID,
				Percentage:   pct,
			})
			errs <- err
		}(v)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := repo.CountProgressRows(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	stored, err := repo.GetProgress(ctx, enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Contains(t, values, stored.Percentage)
}

func TestCountCompletedIgnoresOtherCourses(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, lessons := testutil.SeedCourse(t, db, "Go Basics", 2, 2)
	other, otherLessons := testutil.SeedCourse(t, db, "Rust Basics", 1, 1)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	testutil.SeedEnrollment(t, db, "learner-1", other.ID)

	testutil.SeedCompleted(t, db, enrollment.ID, lessons[0], lessons[1], otherLessons[0])

	repo := repositories.NewEnrollmentRepository(db)
	completed, err := repo.CountCompleted(ctx, enrollment.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), completed)

	total, err := repositories.NewCourseRepository(db).CountLessons(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestLearnerActivityCounts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	goCourse, goLessons := testutil.SeedCourse(t, db, "Go Basics", 1, 3)
	rustCourse, rustLessons := testutil.SeedCourse(t, db, "Rust Basics", 1, 2)
	goEnrollment := testutil.SeedEnrollment(t, db, "learner-1", goCourse.ID)
	rustEnrollment := testutil.SeedEnrollment(t, db, "learner-1", rustCourse.ID)
	testutil.SeedEnrollment(t, db, "learner-2", goCourse.ID)

	repo := repositories.NewEnrollmentRepository(db)
	testutil.SeedCompleted(t, db, goEnrollment.ID, goLessons...)
	_, err := repo.UpsertProgress(ctx, &model.Progress{
		EnrollmentID: rustEnrollment.ID,
		LessonID:     rustLessons[0].ID,
		Percentage:   50,
	})
	require.NoError(t, err)

	completed, err := repo.CountCompletedByUser(ctx, "learner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), completed)

	started, err := repo.CountCoursesStarted(ctx, "learner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), started)

	started, err = repo.CountCoursesStarted(ctx, "learner-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), started)

	learners, err := repo.LearnersWithActivitySince(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"learner-1"}, learners)
}
