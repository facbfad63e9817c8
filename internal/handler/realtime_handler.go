package handler

import (
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/internal/pkg/serverutils"
	internalWS "studyspace-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RealtimeHandler upgrades authenticated requests to the websocket that
// carries leaderboard, achievement and extraction frames.
type RealtimeHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewRealtimeHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *RealtimeHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/ws", h.ServeWs)
}

// ServeWs handles websocket requests from the peer. Browsers cannot set
// headers on the handshake, so the token may come as a query param.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := serverutils.TokenFromRequest(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	identity, err := serverutils.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("REALTIME", "Invalid token in ws handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := identity.UserID
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("REALTIME", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("REALTIME", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}
