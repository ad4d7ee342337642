package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository"
	"ai-journaling-be/pkg/events"
	pktNats "ai-journaling-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates; the websocket hub in
// production.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// EventSubscriber is the durable event source.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type INotificationService interface {
	Start() error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber EventSubscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub EventSubscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start subscribes to every domain event. A nil subscriber leaves the
// service in read-only mode.
func (s *NotificationService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured; notifications are read-only", nil)
		return nil
	}
	if err := s.subscriber.Subscribe(pktNats.SubjectPrefix+">", "notif-service-worker", s.HandleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
	return nil
}

// HandleEvent turns one event into notifications according to the type
// registry. Unknown or inactive types are acknowledged and ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := pktNats.EventType(event.EventType())

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Debug("NotificationService", fmt.Sprintf("No notification type for code '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	// broadcasts are pushed live only; storing one row per user does not scale
	if config.TargetType == model.TargetBroadcast {
		notif := s.buildNotification(uuid.Nil, config, event)
		if s.delivery != nil {
			s.delivery.Broadcast(notif)
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", typeCode), map[string]interface{}{"error": err})
		return err
	}

	for _, userID := range recipients {
		notif := s.buildNotification(userID, config, event)
		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}
	}
	return nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	switch config.TargetType {
	case model.TargetSelf:
		uidStr, _ := event.Payload()["user_id"].(string)
		uid, err := uuid.Parse(uidStr)
		if err != nil {
			s.logger.Warn("NotificationService", fmt.Sprintf("TargetType SELF but no user_id in payload for %s", config.Code), nil)
			return nil, nil
		}
		return []uuid.UUID{uid}, nil

	case model.TargetAdmin:
		return s.repo.GetUserIDsByRole(ctx, "admin")
	}
	return nil, nil
}

// actionRoutes maps an event's entity_type to the client route that opens it.
var actionRoutes = map[string]string{
	"entry": "/journal/entries/",
	"user":  "/admin/users/",
}

// buildNotification fills {placeholders} in the template from the payload.
func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()

	msg := config.Template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	title := config.DisplayName
	if t, ok := payload["title"].(string); ok && t != "" {
		title = t
	}

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	meta := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		meta[k] = v
	}
	if base, ok := actionRoutes[entityType]; ok && entityID != nil {
		meta["action_url"] = base + entityID.String()
	}
	metaJSON, _ := json.Marshal(meta)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   config.Code,
		EntityType: entityType,
		EntityID:   entityID,
		Title:      title,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		CreatedAt:  time.Now(),
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead only touches the caller's own notifications.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
