package repositories

import (
	"context"
	"time"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	BaseRepository
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetOrCreate returns the learner's cart with its items and courses.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	now := time.Now().UTC()
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Cart{ID: NewID(), UserID: userID, CreatedAt: now, UpdatedAt: now}).Error
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	err = r.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at ASC") }).
		Preload("Items.Course").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds the course to the cart; adding it twice keeps a single item.
func (r *CartRepository) AddItem(ctx context.Context, cartID, courseID string) (*model.CartItem, error) {
	item := &model.CartItem{
		ID:        NewID(),
		CartID:    cartID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(item).Error
	if err != nil {
		return nil, err
	}

	var stored model.CartItem
	err = r.conn(ctx).
		Preload("Course").
		Where("cart_id = ? AND course_id = ?", cartID, courseID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// RemoveItem deletes the item from the cart and reports whether it existed.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID string) (bool, error) {
	res := r.conn(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&model.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	return r.conn(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}
