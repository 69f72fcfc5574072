package voice

import (
	"context"
	"time"

	"voice-ai-be/pkg/speech"
)

// Turn is one immutable entry of a session's dialogue history.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Responder produces the next assistant utterance for a running dialogue.
type Responder interface {
	Respond(ctx context.Context, input string, history []Turn) (string, error)
}

// Transport is one session's handle on the real-time room: it accepts
// outbound audio frames and can be disconnected. The session references the
// transport but never owns connection or track lifecycles.
type Transport interface {
	PublishFrame(ctx context.Context, frame AudioFrame) error
	Disconnect(ctx context.Context) error
}

// TransportFactory attaches a new participant to a room.
type TransportFactory interface {
	Connect(ctx context.Context, room, identity string) (Transport, error)
}

// EventSink observes pipeline progress for one session. Within a session,
// OnTranscript fires before OnResponse and one full cycle completes before
// the next begins; no ordering holds across sessions.
type EventSink interface {
	OnTranscript(sessionID, text string)
	OnResponse(sessionID, text string)
	OnError(sessionID string, err error)
	OnAudioChunk(sessionID string, chunk speech.AudioChunk)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnTranscript(string, string)            {}
func (NopSink) OnResponse(string, string)              {}
func (NopSink) OnError(string, error)                  {}
func (NopSink) OnAudioChunk(string, speech.AudioChunk) {}
