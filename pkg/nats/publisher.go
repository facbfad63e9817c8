package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ActivityEmission is one full-state emission of the activity feed.
type ActivityEmission struct {
	Records   []entity.ActivityRecord `json:"records"`
	EmittedAt time.Time               `json:"emitted_at"`
}

// Publisher handles sending events and activity emissions to NATS.
type Publisher struct {
	nc              *nats.Conn
	js              jetstream.JetStream
	activitySubject string
}

func NewPublisher(url, activitySubject string, log logger.ILogger) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	if err := ensureStreams(context.Background(), js, activitySubject); err != nil {
		// The server may still be starting; publishing retries per message.
		log.Warn("NATS", "Failed to ensure streams", map[string]interface{}{"error": err.Error()})
	}

	return &Publisher{nc: nc, js: js, activitySubject: activitySubject}, nil
}

// Publish appends an event to the EVENTS log as events.<TYPE>.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := fmt.Sprintf("events.%s", event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

// PublishActivity replaces the current activity state for every subscriber.
func (p *Publisher) PublishActivity(ctx context.Context, records []entity.ActivityRecord, at time.Time) error {
	if records == nil {
		records = []entity.ActivityRecord{}
	}
	data, err := json.Marshal(ActivityEmission{Records: records, EmittedAt: at})
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.activitySubject, data); err != nil {
		return fmt.Errorf("failed to publish activity to subject %s: %w", p.activitySubject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
