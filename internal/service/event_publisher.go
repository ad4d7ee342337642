package service

import (
	"context"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/pkg/events"

	"github.com/google/uuid"
)

// EventSink is the bus the publisher writes to; *nats.Publisher in
// production.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventPublisher emits the domain events the notification service reacts
// to. Failures are logged, never returned: an event is not worth failing
// the request that caused it.
type EventPublisher interface {
	UserRegistered(ctx context.Context, user *entity.User)
	UserLogin(ctx context.Context, user *entity.User)
	UserDeleted(ctx context.Context, user *entity.User, by uuid.UUID)
	JournalEntryCreated(ctx context.Context, entry *entity.JournalEntry)
	CheckInDue(ctx context.Context, userId uuid.UUID, daysSince int)
	SystemBroadcast(ctx context.Context, title, message string)
}

type eventPublisher struct {
	sink   EventSink
	logger logger.ILogger
}

// NewEventPublisher accepts a nil sink, in which case events are dropped.
func NewEventPublisher(sink EventSink, log logger.ILogger) EventPublisher {
	return &eventPublisher{sink: sink, logger: log}
}

func (p *eventPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, events.New(eventType, data)); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *eventPublisher) UserRegistered(ctx context.Context, user *entity.User) {
	p.publish(ctx, events.UserRegistered, map[string]interface{}{
		"user_id":     user.Id.String(),
		"email":       user.Email,
		"full_name":   user.FullName,
		"entity_type": "user",
		"entity_id":   user.Id.String(),
	})
}

func (p *eventPublisher) UserLogin(ctx context.Context, user *entity.User) {
	p.publish(ctx, events.UserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"role":    string(user.Role),
	})
}

func (p *eventPublisher) UserDeleted(ctx context.Context, user *entity.User, by uuid.UUID) {
	p.publish(ctx, events.UserDeleted, map[string]interface{}{
		"email":    user.Email,
		"actor_id": by.String(),
	})
}

func (p *eventPublisher) JournalEntryCreated(ctx context.Context, entry *entity.JournalEntry) {
	p.publish(ctx, events.JournalEntryCreated, map[string]interface{}{
		"user_id":     entry.UserId.String(),
		"emotion":     entry.Emotion,
		"confidence":  entry.Confidence,
		"entity_type": "entry",
		"entity_id":   entry.Id.String(),
	})
}

func (p *eventPublisher) CheckInDue(ctx context.Context, userId uuid.UUID, daysSince int) {
	p.publish(ctx, events.CheckInDue, map[string]interface{}{
		"user_id": userId.String(),
		"days":    daysSince,
	})
}

func (p *eventPublisher) SystemBroadcast(ctx context.Context, title, message string) {
	p.publish(ctx, events.SystemBroadcast, map[string]interface{}{
		"title":   title,
		"message": message,
	})
}
