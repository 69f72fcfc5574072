package events

import (
	"context"
	"time"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/speech"
	"voice-ai-be/pkg/voice"
)

// ClientEvent is the wire shape forwarded to websocket clients.
type ClientEvent struct {
	Type      string             `json:"type"`
	SessionID string             `json:"session_id"`
	Text      string             `json:"text,omitempty"`
	Message   string             `json:"message,omitempty"`
	Chunk     *speech.AudioChunk `json:"chunk,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Mirror forwards events to an external bus, best effort.
type Mirror interface {
	Publish(ctx context.Context, event Event) error
}

// Sink implements voice.EventSink on top of the in-process bus, optionally
// mirroring every event to an external publisher. Publish failures are
// logged and swallowed; eventing must never stall a pipeline cycle.
type Sink struct {
	bus    *Bus
	mirror Mirror
	log    logger.ILogger
}

var _ voice.EventSink = &Sink{}

func NewSink(bus *Bus, mirror Mirror, log logger.ILogger) *Sink {
	return &Sink{bus: bus, mirror: mirror, log: log}
}

func (s *Sink) OnTranscript(sessionID, text string) {
	s.emit(TopicTranscript, "TRANSCRIPT", ClientEvent{
		Type:      "transcript",
		SessionID: sessionID,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (s *Sink) OnResponse(sessionID, text string) {
	s.emit(TopicResponse, "AI_RESPONSE", ClientEvent{
		Type:      "ai_response",
		SessionID: sessionID,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (s *Sink) OnError(sessionID string, err error) {
	s.emit(TopicError, "PIPELINE_ERROR", ClientEvent{
		Type:      "error",
		SessionID: sessionID,
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

func (s *Sink) OnAudioChunk(sessionID string, chunk speech.AudioChunk) {
	s.emit(TopicAudio, "AUDIO_CHUNK", ClientEvent{
		Type:      "audio_chunk",
		SessionID: sessionID,
		Chunk:     &chunk,
		Timestamp: time.Now(),
	})
}

func (s *Sink) emit(topic, eventType string, evt ClientEvent) {
	if err := s.bus.Publish(topic, evt); err != nil {
		s.log.Warn("EventSink", "Bus publish failed", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
	}

	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	mirrored := NewSessionEvent(eventType, evt.SessionID, map[string]interface{}{
		"text":    evt.Text,
		"message": evt.Message,
	})
	if err := s.mirror.Publish(ctx, mirrored); err != nil {
		s.log.Warn("EventSink", "Mirror publish failed", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
	}
}
