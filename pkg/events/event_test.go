package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStampsEvent(t *testing.T) {
	before := time.Now()
	evt := New(JournalEntryCreated, map[string]interface{}{"emotion": "joy"})

	assert.Equal(t, "JOURNAL_ENTRY_CREATED", evt.EventType())
	assert.Equal(t, "joy", evt.Payload()["emotion"])
	assert.False(t, evt.Timestamp().Before(before))
}
