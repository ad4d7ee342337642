package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/cache"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerInvalidatesStats(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	c := cache.NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, TopicEntrySaved, c).Consume(ctx))

	// malformed payloads are acked and skipped
	c.Set(ctx, StatsCacheKey, []byte("{}"), time.Minute)
	require.NoError(t, pubSub.Publish(TopicEntrySaved, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	time.Sleep(50 * time.Millisecond)
	_, ok := c.Get(ctx, StatsCacheKey)
	assert.True(t, ok)

	payload, err := json.Marshal(dto.EntrySavedMessage{EntryId: uuid.New(), UserId: uuid.New(), Emotion: "joy", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(TopicEntrySaved, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, StatsCacheKey)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
