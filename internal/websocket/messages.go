package websocket

import "time"

// inboundMessage is the envelope clients send over the socket.
type inboundMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type pongMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type statusMessage struct {
	Type               string `json:"type"`
	SessionID          string `json:"session_id"`
	IsProcessing       bool   `json:"is_processing"`
	ConversationLength int    `json:"conversation_length"`
}

type errorMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
