package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	internalWS "voice-ai-be/internal/websocket"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/service"
)

// VoiceStreamHandler upgrades /ws/:session_id connections and attaches them
// to the session's event stream.
type VoiceStreamHandler struct {
	hub      *internalWS.Hub
	sessions service.ISessionService
	logger   logger.ILogger
}

func NewVoiceStreamHandler(hub *internalWS.Hub, sessions service.ISessionService, log logger.ILogger) *VoiceStreamHandler {
	return &VoiceStreamHandler{
		hub:      hub,
		sessions: sessions,
		logger:   log,
	}
}

// RegisterRoutes registers the websocket endpoint on the app root (not the
// /api group; ws:// clients dial the bare path).
func (h *VoiceStreamHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws/:session_id", h.ServeWs)
}

// ServeWs validates the session and hijacks the connection.
func (h *VoiceStreamHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	// Reject unknown sessions before the upgrade so clients get a clean HTTP
	// status instead of an immediate socket close.
	if _, _, err := h.sessions.Status(sessionID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("VoiceStreamHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, h.sessions, conn, sessionID)
			h.logger.Info("VoiceStreamHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
