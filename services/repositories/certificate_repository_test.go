package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateUniquePerLearnerAndCourse(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, _ := testutil.SeedCourse(t, db, "Go Basics", 1, 1)
	repo := repositories.NewCertificateRepository(db)

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &model.Certificate{
		UserID:            "learner-1",
		CourseID:          course.ID,
		CertificateNumber: "EC-1-aaaaaaaaa",
		VerificationHash:  "hash",
		IssueDate:         now,
		CompletionDate:    now,
	}))

	err := repo.Create(ctx, &model.Certificate{
		UserID:            "learner-1",
		CourseID:          course.ID,
		CertificateNumber: "EC-2-bbbbbbbbb",
		VerificationHash:  "hash",
		IssueDate:         now,
		CompletionDate:    now,
	})
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateKey(err))

	stored, err := repo.GetByNumber(ctx, "EC-1-aaaaaaaaa")
	require.NoError(t, err)
	require.NotNil(t, stored.Course)
	assert.Equal(t, "Go Basics", stored.Course.Title)

	_, err = repo.GetByNumber(ctx, "EC-2-bbbbbbbbb")
	assert.True(t, repositories.IsNotFound(err))

	count, err := repo.CountByUserAndCourse(ctx, "learner-1", course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCertificateCreateRollsBackWithTransaction(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	course, _ := testutil.SeedCourse(t, db, "Go Basics", 1, 1)

	t.Run("inside transaction", func(t *testing.T) {
		repo := repositories.NewCertificateRepository(testutil.Tx(t, db))
		now := time.Now().UTC()
		require.NoError(t, repo.Create(ctx, &model.Certificate{
			UserID:            "learner-1",
			CourseID:          course.ID,
			CertificateNumber: "EC-1-ccccccccc",
			VerificationHash:  "hash",
			IssueDate:         now,
			CompletionDate:    now,
		}))

		count, err := repo.CountByUserAndCourse(ctx, "learner-1", course.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	count, err := repositories.NewCertificateRepository(db).CountByUserAndCourse(ctx, "learner-1", course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
