package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Target types for NotificationType.TargetType.
const (
	TargetSelf      = "SELF"
	TargetAdmin     = "ADMIN"
	TargetBroadcast = "BROADCAST"
)

// NotificationType maps an event code to a message template and audience.
// Templates use {placeholders} filled from the event payload.
type NotificationType struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	DisplayName string    `gorm:"type:varchar(100);not null" json:"display_name"`
	Template    string    `gorm:"type:text;not null" json:"template"`
	TargetType  string    `gorm:"type:varchar(20);not null" json:"target_type"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Notification struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_unread,priority:1" json:"user_id"`
	TypeCode   string         `gorm:"type:varchar(50);not null;index" json:"type_code"`
	EntityType string         `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `gorm:"type:uuid" json:"entity_id,omitempty"`
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead     bool           `gorm:"default:false;index:idx_notifications_user_unread,priority:2" json:"is_read"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

// DefaultNotificationTypes is the registry seeded by the migrate command.
func DefaultNotificationTypes() []NotificationType {
	return []NotificationType{
		{Code: "USER_REGISTERED", DisplayName: "New user", Template: "{email} just joined.", TargetType: TargetAdmin, IsActive: true},
		{Code: "JOURNAL_ENTRY_CREATED", DisplayName: "Entry saved", Template: "Your entry was saved. Main emotion: {emotion}.", TargetType: TargetSelf, IsActive: true},
		{Code: "CHECKIN_DUE", DisplayName: "Weekly check-in", Template: "It's been a week. How are you feeling?", TargetType: TargetSelf, IsActive: true},
		{Code: "USER_DELETED", DisplayName: "User removed", Template: "{email} and their journal were deleted.", TargetType: TargetAdmin, IsActive: true},
		{Code: "SYSTEM_BROADCAST", DisplayName: "Announcement", Template: "{message}", TargetType: TargetBroadcast, IsActive: true},
	}
}
