package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Tone        string     `json:"tone"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type PreferencesRequest struct {
	Tone string `json:"tone" validate:"required,oneof=neutral supportive motivational reflective"`
}

type PreferencesResponse struct {
	Tone      string    `json:"tone"`
	UpdatedAt time.Time `json:"updated_at"`
}
