package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/cache"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs the post-save jobs for journal entries. Today that
// is keeping the admin dashboard cache fresh.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	cache      cache.Cache
}

func NewConsumerService(subscriber message.Subscriber, topicName string, statsCache cache.Cache) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		cache:      statsCache,
	}
}

// Consume starts processing in the background. It stops when ctx is
// cancelled or the subscriber is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.EntrySavedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		// ack invalid messages so they are not redelivered forever
		msg.Ack()
		return
	}

	cs.cache.Delete(msg.Context(), StatsCacheKey)
	msg.Ack()
}
