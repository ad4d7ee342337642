package events

import "time"

// Event type codes. Each one is published on the subject "events.<code>"
// and matches a row in notification_types.
const (
	UserRegistered      = "USER_REGISTERED"
	UserLogin           = "USER_LOGIN"
	UserDeleted         = "USER_DELETED"
	JournalEntryCreated = "JOURNAL_ENTRY_CREATED"
	CheckInDue          = "CHECKIN_DUE"
	SystemBroadcast     = "SYSTEM_BROADCAST"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

// New stamps an event with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
