package events

import "time"

const (
	TypeGenerationCompleted = "GENERATION_COMPLETED"
	TypeAchievementUnlocked = "ACHIEVEMENT_UNLOCKED"
	TypeEquationsExtracted  = "EQUATIONS_EXTRACTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "GENERATION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}, at time.Time) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
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

// String reads a string field from an event payload.
func String(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}

// Int reads a numeric field, tolerating the float64 a JSON round trip produces.
func Int(e Event, key string) int {
	switch v := e.Payload()[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
