package unitofwork

import (
	"context"

	"ai-journaling-be/internal/repository"
	"ai-journaling-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	JournalRepository() contract.JournalRepository
	CheckInRepository() contract.CheckInRepository
	SystemRepository() contract.SystemRepository
	NotificationRepository() repository.NotificationRepository
}
