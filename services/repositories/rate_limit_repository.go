package repositories

import (
	"context"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *RateLimitRepository) ListActiveConfigs(ctx context.Context) ([]model.RateLimitConfig, error) {
	var configs []model.RateLimitConfig
	err := r.conn(ctx).Where("is_active = ?", true).Find(&configs).Error
	return configs, err
}

// EnsureConfigs inserts the given configs, leaving existing endpoint types untouched.
func (r *RateLimitRepository) EnsureConfigs(ctx context.Context, configs []model.RateLimitConfig) error {
	if len(configs) == 0 {
		return nil
	}
	rows := make([]model.RateLimitConfig, len(configs))
	copy(rows, configs)
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = NewID()
		}
	}
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint_type"}},
		DoNothing: true,
	}).Create(&rows).Error
}
