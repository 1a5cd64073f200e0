package model

import "time"

// User is the learner profile. The id is the identity provider's subject.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;size:255"`
	Name      string    `json:"name" gorm:"size:255"`
	Bio       string    `json:"bio" gorm:"type:text"`
	AvatarURL string    `json:"avatarUrl"`
	Role      string    `json:"role" gorm:"not null;default:STUDENT;size:20"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
