package repository

import (
	"context"
	"errors"

	"ai-journaling-be/internal/model"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// Registry
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	SeedNotificationTypes(ctx context.Context, types []model.NotificationType) error
	GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
}
