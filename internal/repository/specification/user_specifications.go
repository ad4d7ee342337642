package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(s.Email))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// SearchUsers matches email or full name, case-insensitively.
type SearchUsers struct {
	Query string
}

func (s SearchUsers) Apply(db *gorm.DB) *gorm.DB {
	if strings.TrimSpace(s.Query) == "" {
		return db
	}
	pattern := "%" + strings.TrimSpace(s.Query) + "%"
	return db.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern)
}
