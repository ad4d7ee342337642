package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

// Manager handles user-related admin operations. Methods run on the
// caller's unit of work; Purge expects an open transaction.
type Manager struct {
	logger logger.ILogger
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger}
}

// List returns users with their journal activity, newest first.
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, search string) ([]*entity.UserSummary, error) {
	p := specification.Page(page, limit)
	return uow.UserRepository().ListSummaries(ctx, search, p.Limit, p.Offset)
}

func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	u, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, adminId, userId uuid.UUID, status entity.UserStatus) error {
	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}
	m.logger.Info("ADMIN", "Updated user status", map[string]interface{}{
		"userId": userId.String(),
		"status": string(status),
		"admin":  adminId.String(),
	})
	return nil
}

// Purge deletes a user and everything they own.
func (m *Manager) Purge(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	if _, err := uow.JournalRepository().Delete(ctx, specification.UserOwnedBy{UserID: userId}); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if err := uow.CheckInRepository().DeleteByUser(ctx, userId); err != nil {
		return fmt.Errorf("delete check-ins: %w", err)
	}
	if err := uow.UserRepository().DeletePreference(ctx, userId); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	if err := uow.NotificationRepository().DeleteByUserID(ctx, userId); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	m.logger.Info("ADMIN", "Deleted User", map[string]interface{}{"userId": userId.String()})
	return nil
}

// EnsureAdmin creates the admin account, or promotes and re-keys an
// existing account with that email. It reports whether a row was created.
func (m *Manager) EnsureAdmin(ctx context.Context, uow unitofwork.UnitOfWork, email, password string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return false, err
	}

	now := time.Now()
	if existing != nil {
		existing.PasswordHash = string(hash)
		existing.Role = entity.UserRoleAdmin
		existing.Status = entity.UserStatusActive
		existing.UpdatedAt = now
		return false, uow.UserRepository().Update(ctx, existing)
	}

	admin := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		return false, err
	}
	m.logger.Info("ADMIN", "Admin account created", map[string]interface{}{"email": email})
	return true, nil
}
