package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/livekit"
	"voice-ai-be/pkg/speech"
	"voice-ai-be/pkg/voice"
)

var (
	ErrSessionExists   = voice.ErrSessionExists
	ErrSessionNotFound = voice.ErrSessionNotFound
)

// ISessionService defines the voice session lifecycle surface.
type ISessionService interface {
	Create(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	End(ctx context.Context, sessionID string) error
	AcceptTranscript(ctx context.Context, sessionID, text string) (string, error)
	Status(sessionID string) (isProcessing bool, conversationLength int, err error)
	SweepIdle(ctx context.Context, threshold time.Duration) []string
}

type sessionService struct {
	registry    *voice.Registry
	rtc         *livekit.Service
	synthesizer speech.Synthesizer
	liveKitURL  string
	log         logger.ILogger
}

func NewSessionService(
	registry *voice.Registry,
	rtc *livekit.Service,
	synthesizer speech.Synthesizer,
	liveKitURL string,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		registry:    registry,
		rtc:         rtc,
		synthesizer: synthesizer,
		liveKitURL:  liveKitURL,
		log:         log,
	}
}

// Create provisions a room, mints the caller's join token and registers the
// voice session. The agent participant joins the room on the server side.
func (s *sessionService) Create(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	sessionID := uuid.New().String()
	roomName := "voice-ai-" + sessionID

	token, err := s.rtc.JoinToken(roomName, "user-"+sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.Create(ctx, sessionID, roomName)
	if err != nil {
		return nil, err
	}

	if request.Persona != "" {
		session.SeedPersona(request.Persona)
	}

	s.log.Info("SessionService", "Session created", map[string]interface{}{
		"session_id": sessionID,
		"room":       roomName,
	})

	return &dto.CreateSessionResponse{
		SessionID:  sessionID,
		RoomName:   roomName,
		Token:      token,
		LiveKitURL: s.liveKitURL,
	}, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionStateResponse{Snapshot: session.Snapshot()}, nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) error {
	return s.registry.End(ctx, sessionID)
}

// AcceptTranscript feeds a client-side transcript straight into the dialogue,
// bypassing server STT. Returns the assistant's reply text.
func (s *sessionService) AcceptTranscript(ctx context.Context, sessionID, text string) (string, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return "", err
	}
	return session.AcceptTranscript(ctx, text)
}

func (s *sessionService) Status(sessionID string) (bool, int, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return false, 0, err
	}
	return session.IsProcessing(), len(session.History()), nil
}

// SweepIdle reclaims sessions idle past the threshold.
func (s *sessionService) SweepIdle(ctx context.Context, threshold time.Duration) []string {
	reclaimed := s.registry.Sweep(ctx, threshold)
	if len(reclaimed) > 0 {
		s.log.Info("SessionService", "Idle sessions reclaimed", map[string]interface{}{
			"count":       len(reclaimed),
			"session_ids": reclaimed,
		})
	}
	return reclaimed
}

// IsNotFound reports whether err maps to a missing session.
func IsNotFound(err error) bool {
	return errors.Is(err, voice.ErrSessionNotFound)
}
