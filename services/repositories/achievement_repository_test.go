package repositories_test

import (
	"context"
	"testing"

	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateReusesDefinition(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := repositories.NewAchievementRepository(db)

	def := model.Achievement{Name: "First Steps", Points: 10}
	first, err := repo.FindOrCreate(ctx, def)
	require.NoError(t, err)

	second, err := repo.FindOrCreate(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Achievement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGrantIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := repositories.NewAchievementRepository(db)

	achievement, err := repo.FindOrCreate(ctx, model.Achievement{Name: "Quick Learner", Points: 25})
	require.NoError(t, err)

	_, granted, err := repo.Grant(ctx, "learner-1", achievement.ID)
	require.NoError(t, err)
	assert.True(t, granted)

	_, granted, err = repo.Grant(ctx, "learner-1", achievement.ID)
	require.NoError(t, err)
	assert.False(t, granted)

	count, err := repo.CountGrants(ctx, "learner-1", "Quick Learner")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	grants, err := repo.ListByUser(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "Quick Learner", grants[0].Achievement.Name)
	assert.False(t, grants[0].AwardedAt.IsZero())
}
