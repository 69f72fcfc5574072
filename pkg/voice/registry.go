package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/speech"
)

// Registry creates and destroys voice sessions and is the exclusive,
// synchronized owner of the session-id to session mapping. There is no
// ambient global state; all lifecycle goes through the registry.
type Registry struct {
	transcriber speech.Transcriber
	responder   Responder
	synthesizer speech.Synthesizer
	transports  TransportFactory
	sink        EventSink
	settings    Settings
	log         logger.ILogger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry wires a registry over the given collaborators.
func NewRegistry(
	transcriber speech.Transcriber,
	responder Responder,
	synthesizer speech.Synthesizer,
	transports TransportFactory,
	sink EventSink,
	settings Settings,
	log logger.ILogger,
) *Registry {
	if sink == nil {
		sink = NopSink{}
	}
	return &Registry{
		transcriber: transcriber,
		responder:   responder,
		synthesizer: synthesizer,
		transports:  transports,
		sink:        sink,
		settings:    settings,
		log:         log,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session for the given id, attaching an agent
// participant to the room. A duplicate id or an unreachable transport is
// fatal to the request and reported to the caller.
func (r *Registry) Create(ctx context.Context, sessionID, roomName string) (*Session, error) {
	r.mu.Lock()
	if _, exists := r.sessions[sessionID]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("create session %s: %w", sessionID, ErrSessionExists)
	}
	// Reserve the id while connecting so a concurrent Create cannot race in.
	r.sessions[sessionID] = nil
	r.mu.Unlock()

	transport, err := r.transports.Connect(ctx, roomName, "ai-agent-"+sessionID)
	if err != nil {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return nil, fmt.Errorf("connect transport for session %s: %w", sessionID, err)
	}

	session := NewSession(sessionID, roomName, Deps{
		Transcriber: r.transcriber,
		Responder:   r.responder,
		Synthesizer: r.synthesizer,
		Transport:   transport,
		Sink:        r.sink,
		Logger:      r.log,
	}, r.settings)

	r.mu.Lock()
	r.sessions[sessionID] = session
	r.mu.Unlock()

	r.log.Info("Registry", "Created voice session", map[string]interface{}{
		"session_id": sessionID,
		"room":       roomName,
	})
	return session, nil
}

// Get returns the live session for the id.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// End tears down the session. An unknown id is an error, but transport
// cleanup failures are logged and swallowed: the conversation is torn down
// on the server's terms regardless, and removal from the registry always
// proceeds.
func (r *Registry) End(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok || session == nil {
		return ErrSessionNotFound
	}

	if err := session.close(ctx); err != nil {
		r.log.Warn("Registry", "Transport disconnect failed during session end", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	r.log.Info("Registry", "Ended voice session", map[string]interface{}{
		"session_id": sessionID,
		"duration_s": session.Age().Seconds(),
	})
	return nil
}

// Sweep ends every session older than the idle threshold and returns the
// reclaimed ids. The registry never invokes this itself; housekeeping is
// caller-driven.
func (r *Registry) Sweep(ctx context.Context, idleThreshold time.Duration) []string {
	r.mu.RLock()
	var stale []string
	for id, session := range r.sessions {
		if session != nil && session.Age() > idleThreshold {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	var reclaimed []string
	for _, id := range stale {
		if err := r.End(ctx, id); err != nil {
			// Already ended by a concurrent caller.
			continue
		}
		reclaimed = append(reclaimed, id)
	}
	return reclaimed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
