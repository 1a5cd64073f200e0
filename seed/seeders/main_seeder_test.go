package seeders_test

import (
	"testing"

	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/seed/seeders"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAllIsRepeatable(t *testing.T) {
	db := testutil.DB(t)
	seeder := seeders.NewMainSeeder(db)

	require.NoError(t, seeder.SeedAll())
	require.NoError(t, seeder.SeedAll())
	require.NoError(t, seeder.SeedIfEmpty())

	var courses, lessons, achievements int64
	require.NoError(t, db.Model(&model.Course{}).Count(&courses).Error)
	require.NoError(t, db.Model(&model.Lesson{}).Count(&lessons).Error)
	require.NoError(t, db.Model(&model.Achievement{}).Count(&achievements).Error)

	assert.Equal(t, int64(6), courses)
	assert.Equal(t, int64(4), lessons)
	assert.Equal(t, int64(3), achievements)

	var python model.Course
	require.NoError(t, db.Where("title = ?", "Introduction to Python Programming").First(&python).Error)
	assert.Equal(t, 29.99, python.Price)
	assert.JSONEq(t, `["Basic computer skills","No prior programming experience needed"]`, string(python.Prerequisites))
}
