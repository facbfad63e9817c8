package events

import (
	"context"
	"encoding/json"
	"fmt"

	"studyspace-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Handler processes one event. Returning an error only logs it; the event
// is not redelivered.
type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Bus interface {
	Publisher
	Subscribe(ctx context.Context, eventType string, handler Handler) error
	Close() error
}

// WatermillBus is the in-process event bus. Each event type is its own topic.
type WatermillBus struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewWatermillBus(log logger.ILogger) *WatermillBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	return &WatermillBus{pubSub: pubSub, logger: log}
}

func (b *WatermillBus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if err := b.pubSub.Publish(topic(event.EventType()), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe starts a consumer goroutine that lives until ctx is done.
func (b *WatermillBus) Subscribe(ctx context.Context, eventType string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic(eventType))
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
	}

	go func() {
		for msg := range messages {
			b.process(ctx, msg, handler)
		}
	}()
	return nil
}

func (b *WatermillBus) process(ctx context.Context, msg *message.Message, handler Handler) {
	defer msg.Ack()

	var event BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		b.logger.Error("EVENT_BUS", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if err := handler(ctx, event); err != nil {
		b.logger.Warn("EVENT_BUS", "Event handler failed", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
}

func (b *WatermillBus) Close() error {
	return b.pubSub.Close()
}

func topic(eventType string) string {
	return "events." + eventType
}
