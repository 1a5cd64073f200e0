package services

import (
	"context"
	"testing"
	"time"

	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/solomon244/Code-Academy/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func achievementNames(list []dto.AchievementResponse) []string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return names
}

func TestFirstCompletedLessonGrantsFirstStepsAndCourseExplorer(t *testing.T) {
	database, db := newTestDatabase(t)
	svc := newTestAchievementService(t, database, nil)

	course, lessons := testutil.SeedCourse(t, db, "Go", 1, 5)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	testutil.SeedCompleted(t, db, enrollment.ID, lessons[0])

	granted, err := svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.AchievementFirstSteps, model.AchievementCourseExplorer}, achievementNames(granted))
	for _, a := range granted {
		assert.NotNil(t, a.AwardedAt)
		assert.NotZero(t, a.Points)
	}

	again, err := svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestQuickLearnerGrantedExactlyOnce(t *testing.T) {
	database, db := newTestDatabase(t)
	svc := newTestAchievementService(t, database, nil)
	achievements := repositories.NewAchievementRepository(db)

	course, lessons := testutil.SeedCourse(t, db, "Go", 2, 3)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	testutil.SeedCompleted(t, db, enrollment.ID, lessons[:4]...)

	granted, err := svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.NotContains(t, achievementNames(granted), model.AchievementQuickLearner)

	testutil.SeedCompleted(t, db, enrollment.ID, lessons[4])
	granted, err = svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{model.AchievementQuickLearner}, achievementNames(granted))

	testutil.SeedCompleted(t, db, enrollment.ID, lessons[5])
	granted, err = svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Empty(t, granted)

	count, err := achievements.CountGrants(context.Background(), "learner-1", model.AchievementQuickLearner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEvaluateWithoutActivityGrantsNothing(t *testing.T) {
	database, _ := newTestDatabase(t)
	svc := newTestAchievementService(t, database, nil)

	granted, err := svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Empty(t, granted)

	_, err = svc.EvaluateAndGrant(context.Background(), "")
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUnauthorized))
}

func TestListUserAchievementsIncludesAwardTime(t *testing.T) {
	database, db := newTestDatabase(t)
	svc := newTestAchievementService(t, database, nil)

	course, lessons := testutil.SeedCourse(t, db, "Go", 1, 1)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	testutil.SeedCompleted(t, db, enrollment.ID, lessons[0])

	_, err := svc.EvaluateAndGrant(context.Background(), "learner-1")
	require.NoError(t, err)

	list, err := svc.ListUserAchievements(context.Background(), "learner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		require.NotNil(t, a.AwardedAt)
		assert.False(t, a.AwardedAt.IsZero())
		assert.NotEmpty(t, a.Description)
	}
}

func TestTriggeredEvaluationGrantsInBackground(t *testing.T) {
	database, db := newTestDatabase(t)
	achievementSvc := newTestAchievementService(t, database, nil)
	progressSvc := newTestProgressService(database, achievementSvc)

	course, lessons := testutil.SeedCourse(t, db, "Go", 1, 2)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)

	_, err := progressSvc.UpdateProgress(context.Background(), "learner-1", dto.UpdateProgressRequest{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Completed:    true,
	})
	require.NoError(t, err)

	achievements := repositories.NewAchievementRepository(db)
	require.Eventually(t, func() bool {
		count, err := achievements.CountGrants(context.Background(), "learner-1", model.AchievementFirstSteps)
		return err == nil && count == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFailingEvaluationIsReportedNotPropagated(t *testing.T) {
	progressDatabase, db := newTestDatabase(t)
	brokenDatabase, brokenDB := newTestDatabase(t)

	reporter := &fakeReporter{}
	achievementSvc := newTestAchievementService(t, brokenDatabase, reporter)
	progressSvc := newTestProgressService(progressDatabase, achievementSvc)

	sqlDB, err := brokenDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	course, lessons := testutil.SeedCourse(t, db, "Go", 1, 4)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)

	res, err := progressSvc.UpdateProgress(context.Background(), "learner-1", dto.UpdateProgressRequest{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Completed:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, res.OverallProgress)

	require.Eventually(t, func() bool {
		return len(reporter.reported()) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestReconcileEvaluatesRecentlyActiveLearners(t *testing.T) {
	database, db := newTestDatabase(t)
	svc := newTestAchievementService(t, database, nil)

	course, lessons := testutil.SeedCourse(t, db, "Go", 1, 2)
	first := testutil.SeedEnrollment(t, db, "learner-1", course.ID)
	second := testutil.SeedEnrollment(t, db, "learner-2", course.ID)
	testutil.SeedCompleted(t, db, first.ID, lessons[0])
	testutil.SeedCompleted(t, db, second.ID, lessons[0], lessons[1])

	evaluated, err := svc.Reconcile(context.Background(), time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, evaluated)

	list, err := svc.ListUserAchievements(context.Background(), "learner-2")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	evaluated, err = svc.Reconcile(context.Background(), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, evaluated)
}
