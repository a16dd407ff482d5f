package handler

import (
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/pkg/serverutils"
	internalWS "image-processing-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// HistoryFeedHandler streams history changes to browsers over a websocket.
type HistoryFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewHistoryFeedHandler(hub *internalWS.Hub, log logger.ILogger) *HistoryFeedHandler {
	return &HistoryFeedHandler{hub: hub, logger: log}
}

// ServeWs upgrades the request. The feed is public, so no identity is needed;
// the session id only labels the client in logs.
func (h *HistoryFeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	clientID := serverutils.CurrentSession(c).ID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("HistoryFeed", "Client connected", map[string]interface{}{"client_id": clientID})
		internalWS.ServeWs(h.hub, conn, clientID)
		h.logger.Info("HistoryFeed", "Client disconnected", map[string]interface{}{"client_id": clientID})
	})(c)
}

func (h *HistoryFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/history", h.ServeWs)
}
