package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string
type Tone string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"

	ToneNeutral      Tone = "neutral"
	ToneSupportive   Tone = "supportive"
	ToneMotivational Tone = "motivational"
	ToneReflective   Tone = "reflective"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneNeutral, ToneSupportive, ToneMotivational, ToneReflective:
		return true
	}
	return false
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         UserRole
	Status       UserStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == UserRoleAdmin }

type UserPreference struct {
	UserId    uuid.UUID
	Tone      Tone
	UpdatedAt time.Time
}

// UserSummary is the admin listing row: a user plus their journal activity.
type UserSummary struct {
	User
	EntryCount  int64
	LastEntryAt *time.Time
}
