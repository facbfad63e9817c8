package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"studyspace-be/pkg/database"
	"studyspace-be/pkg/events"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type sentFrame struct {
	UserID uuid.UUID
	Type   string
	Data   interface{}
}

type notifierFake struct {
	mu        sync.Mutex
	connected []uuid.UUID
	frames    []sentFrame
}

func (n *notifierFake) Send(_ context.Context, userID uuid.UUID, msgType string, data interface{}) error {
	return n.SendLocal(userID, msgType, data)
}

func (n *notifierFake) SendLocal(userID uuid.UUID, msgType string, data interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.frames = append(n.frames, sentFrame{UserID: userID, Type: msgType, Data: data})
	return nil
}

func (n *notifierFake) ConnectedUsers() []uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uuid.UUID{}, n.connected...)
}

func (n *notifierFake) framesFor(userID uuid.UUID, msgType string) []sentFrame {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentFrame
	for _, f := range n.frames {
		if f.UserID == userID && f.Type == msgType {
			out = append(out, f)
		}
	}
	return out
}

type busFake struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *busFake) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *busFake) ofType(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
