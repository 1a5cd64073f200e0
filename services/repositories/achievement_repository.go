package repositories

import (
	"context"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	BaseRepository
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindOrCreate returns the achievement with def.Name, inserting def if no learner has earned it yet.
func (r *AchievementRepository) FindOrCreate(ctx context.Context, def model.Achievement) (*model.Achievement, error) {
	if def.ID == "" {
		def.ID = NewID()
	}

	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&def).Error
	if err != nil {
		return nil, err
	}

	return r.GetByName(ctx, def.Name)
}

func (r *AchievementRepository) GetByName(ctx context.Context, name string) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.conn(ctx).Where("name = ?", name).First(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

// Grant inserts the (user, achievement) pair and reports whether it was newly granted.
func (r *AchievementRepository) Grant(ctx context.Context, userID, achievementID string) (*model.UserAchievement, bool, error) {
	grant := &model.UserAchievement{
		ID:            NewID(),
		UserID:        userID,
		AchievementID: achievementID,
		AwardedAt:     time.Now().UTC(),
	}

	res := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(grant)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return grant, res.RowsAffected == 1, nil
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	var grants []model.UserAchievement
	err := r.conn(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&grants).Error
	return grants, err
}

func (r *AchievementRepository) CountGrants(ctx context.Context, userID, achievementName string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ? AND achievements.name = ?", userID, achievementName).
		Count(&count).Error
	return count, err
}
