package service

import (
	"context"

	"github.com/google/uuid"
)

// RealtimeNotifier pushes typed frames to a user's open connections.
// Implemented by the websocket hub.
type RealtimeNotifier interface {
	// Send reaches the user on every instance.
	Send(ctx context.Context, userID uuid.UUID, msgType string, data interface{}) error
	// SendLocal reaches the user's connections on this instance only.
	SendLocal(userID uuid.UUID, msgType string, data interface{}) error
	ConnectedUsers() []uuid.UUID
}
