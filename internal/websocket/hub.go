package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/events"
)

// Hub fans voice pipeline events out to websocket clients, keyed by session
// id. Multiple clients may listen on the same session (e.g. a debug console
// next to the speaking client); frames for other sessions never cross over.
type Hub struct {
	// Registered clients map: SessionID -> list of clients
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	bus    *events.Bus
	logger logger.ILogger
}

func NewHub(bus *events.Bus, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		bus:        bus,
		logger:     log,
	}
}

// Run services registrations and drains the event bus until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for _, topic := range []string{
		events.TopicTranscript,
		events.TopicResponse,
		events.TopicError,
		events.TopicAudio,
	} {
		go h.drainTopic(ctx, topic)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no listeners left", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) drainTopic(ctx context.Context, topic string) {
	messages, err := h.bus.Subscribe(ctx, topic)
	if err != nil {
		h.logger.Error("Hub", "Failed to subscribe to topic", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return
	}

	for msg := range messages {
		var evt struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(msg.Payload, &evt); err != nil || evt.SessionID == "" {
			msg.Ack()
			continue
		}
		h.send(evt.SessionID, msg.Payload)
		msg.Ack()
	}
}

// send delivers raw JSON to every client listening on the session.
func (h *Hub) send(sessionID string, data []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionID,
			})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}
