package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user';index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserPreference struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tone      string    `gorm:"type:varchar(20);not null;default:'neutral'"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
