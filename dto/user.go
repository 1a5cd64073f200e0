package dto

import "time"

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatarUrl"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"max=255"`
	Bio       string `json:"bio" validate:"max=2000"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}
