package repositories

import (
	"context"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles learner profile rows
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := r.conn(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertProfile creates the profile or overwrites its editable fields.
func (r *UserRepository) UpsertProfile(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	columns := []string{"name", "bio", "avatar_url", "updated_at"}
	if user.Email != "" {
		columns = append(columns, "email")
	}

	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetUser(ctx, user.ID)
}

// EnsureUser creates a bare profile for the identity if none exists.
func (r *UserRepository) EnsureUser(ctx context.Context, userID, email string) error {
	now := time.Now().UTC()
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&model.User{ID: userID, Email: email, Role: "STUDENT", CreatedAt: now, UpdatedAt: now}).Error
}

func (r *UserRepository) SetRole(ctx context.Context, userID, role string) error {
	return r.conn(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now().UTC()}).Error
}
