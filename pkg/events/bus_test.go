package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyspace-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBusDeliversByType(t *testing.T) {
	bus := NewWatermillBus(logger.NewNopLogger())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 4)
	require.NoError(t, bus.Subscribe(ctx, TypeGenerationCompleted, func(_ context.Context, e Event) error {
		got <- e
		return nil
	}))

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(ctx, New(TypeAchievementUnlocked, nil, at)))
	require.NoError(t, bus.Publish(ctx, New(TypeGenerationCompleted, map[string]interface{}{
		"user_id":           "u-1",
		"daily_generations": 3,
	}, at)))

	select {
	case e := <-got:
		assert.Equal(t, TypeGenerationCompleted, e.EventType())
		assert.Equal(t, "u-1", String(e, "user_id"))
		assert.Equal(t, 3, Int(e, "daily_generations"))
		assert.True(t, at.Equal(e.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case e := <-got:
		t.Fatalf("unexpected event %s", e.EventType())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatermillBusKeepsConsumingAfterHandlerError(t *testing.T) {
	bus := NewWatermillBus(logger.NewNopLogger())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 4)
	require.NoError(t, bus.Subscribe(ctx, TypeEquationsExtracted, func(context.Context, Event) error {
		calls <- struct{}{}
		return errors.New("handler broke")
	}))

	now := time.Now()
	require.NoError(t, bus.Publish(ctx, New(TypeEquationsExtracted, nil, now)))
	require.NoError(t, bus.Publish(ctx, New(TypeEquationsExtracted, nil, now)))

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler call %d missing", i+1)
		}
	}
}
