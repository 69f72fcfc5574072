package livekit

import (
	"context"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/voice"
)

// audioTopic labels outbound audio data packets so clients can tell them
// apart from other room data.
const audioTopic = "voice-ai-audio"

// Service is the transport factory handed to the session registry: it owns
// room lifecycle and attaches agent participants.
type Service struct {
	ServerURL string
	rooms     *RoomClient
	minter    *TokenMinter
	log       logger.ILogger
}

var _ voice.TransportFactory = &Service{}

func NewService(serverURL, apiKey, apiSecret string, log logger.ILogger) *Service {
	minter := NewTokenMinter(apiKey, apiSecret)
	return &Service{
		ServerURL: serverURL,
		rooms:     NewRoomClient(serverURL, minter),
		minter:    minter,
		log:       log,
	}
}

// JoinToken mints a participant credential for the room.
func (s *Service) JoinToken(room, identity string) (string, error) {
	return s.minter.JoinToken(room, identity)
}

// Connect ensures the room exists and returns the agent's transport handle.
func (s *Service) Connect(ctx context.Context, room, identity string) (voice.Transport, error) {
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.log.Info("LiveKit", "Room ready", map[string]interface{}{"room": room, "identity": identity})
	return &roomTransport{room: room, identity: identity, rooms: s.rooms}, nil
}

// roomTransport ships synthesized audio frames into a room and tears the
// room down on disconnect.
type roomTransport struct {
	room     string
	identity string
	rooms    *RoomClient
}

var _ voice.Transport = &roomTransport{}

func (t *roomTransport) PublishFrame(ctx context.Context, frame voice.AudioFrame) error {
	return t.rooms.SendData(ctx, t.room, frame.Bytes(), audioTopic)
}

func (t *roomTransport) Disconnect(ctx context.Context) error {
	return t.rooms.DeleteRoom(ctx, t.room)
}
