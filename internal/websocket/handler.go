package websocket

import (
	"github.com/gofiber/websocket/v2"

	"voice-ai-be/internal/service"
)

// ServeWs attaches a websocket connection to the session's event stream.
// readPump runs on the handler goroutine; fiber tears the connection down
// when it returns.
func ServeWs(hub *Hub, sessions service.ISessionService, c *websocket.Conn, sessionID string) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		sessions:  sessions,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
