package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"studyspace-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// PresenceListener hears when a user's first connection opens and their
// last one closes.
type PresenceListener interface {
	ViewerJoined(userID uuid.UUID)
	ViewerLeft(userID uuid.UUID)
}

// InboundHandler receives frames sent by clients.
type InboundHandler func(userID uuid.UUID, env Envelope)

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Redis pub/sub reaches users connected to other instances.
	rdb      *redis.Client
	instance string

	presence PresenceListener
	inbound  InboundHandler

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

// SetPresenceListener and SetInboundHandler must be called before Run.
func (h *Hub) SetPresenceListener(l PresenceListener) {
	h.presence = l
}

func (h *Hub) SetInboundHandler(fn InboundHandler) {
	h.inbound = fn
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			first := len(h.clients[client.UserID]) == 0
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"user_id": client.UserID})
			if first && h.presence != nil {
				h.presence.ViewerJoined(client.UserID)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			last := h.removeLocked(client)
			h.mu.Unlock()
			if last {
				h.logger.Info("HUB", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				if h.presence != nil {
					h.presence.ViewerLeft(client.UserID)
				}
			}
		}
	}
}

// removeLocked drops client and closes its channel once. It reports whether
// that was the user's last connection.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.clients[client.UserID]
	if !ok {
		return false
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		return true
	}
	return false
}

// ConnectedUsers lists users with at least one local connection.
func (h *Hub) ConnectedUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) IsConnected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendLocal delivers to this instance's connections of userID only.
func (h *Hub) SendLocal(userID uuid.UUID, msgType string, data interface{}) error {
	msg, err := encode(msgType, data)
	if err != nil {
		return err
	}
	h.deliver(userID, msg)
	return nil
}

// Send delivers to userID on every instance.
func (h *Hub) Send(ctx context.Context, userID uuid.UUID, msgType string, data interface{}) error {
	msg, err := encode(msgType, data)
	if err != nil {
		return err
	}
	h.deliver(userID, msg)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instance, TargetUserID: userID.String(), Message: msg})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, clusterChannel, payload).Err()
}

// deliver drops a connection whose buffer is full rather than block the caller.
func (h *Hub) deliver(userID uuid.UUID, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range append([]*Client(nil), h.clients[userID]...) {
		select {
		case client.Send <- msg:
		default:
			h.logger.Warn("HUB", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
			if h.removeLocked(client) && h.presence != nil {
				go h.presence.ViewerLeft(userID)
			}
		}
	}
}

func (h *Hub) handleInbound(userID uuid.UUID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("HUB", "Ignoring malformed frame", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return
	}
	if h.inbound != nil {
		h.inbound(userID, env)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.onClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) onClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Error("HUB", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instance {
		return
	}
	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}
	h.deliver(uid, payload.Message)
}
