package model

import "time"

type Cart struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"not null;uniqueIndex;size:255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []CartItem `json:"items" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CartID    string    `json:"cartId" gorm:"not null;uniqueIndex:idx_cart_item_cart_course"`
	CourseID  string    `json:"courseId" gorm:"not null;uniqueIndex:idx_cart_item_cart_course"`
	CreatedAt time.Time `json:"createdAt"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
