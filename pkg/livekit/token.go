package livekit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a join credential stays valid.
const DefaultTokenTTL = 6 * time.Hour

// TokenMinter signs LiveKit access tokens with the project's API key pair.
type TokenMinter struct {
	apiKey    string
	apiSecret string
}

func NewTokenMinter(apiKey, apiSecret string) *TokenMinter {
	return &TokenMinter{apiKey: apiKey, apiSecret: apiSecret}
}

// videoGrant mirrors the LiveKit video grant claim.
type videoGrant struct {
	Room           string `json:"room,omitempty"`
	RoomJoin       bool   `json:"roomJoin,omitempty"`
	RoomCreate     bool   `json:"roomCreate,omitempty"`
	RoomAdmin      bool   `json:"roomAdmin,omitempty"`
	CanPublish     bool   `json:"canPublish,omitempty"`
	CanSubscribe   bool   `json:"canSubscribe,omitempty"`
	CanPublishData bool   `json:"canPublishData,omitempty"`
}

// JoinToken mints a participant credential for the room.
func (m *TokenMinter) JoinToken(room, identity string) (string, error) {
	return m.sign(identity, videoGrant{
		Room:           room,
		RoomJoin:       true,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	}, DefaultTokenTTL)
}

// adminToken mints a short-lived credential for room service API calls.
func (m *TokenMinter) adminToken(room string) (string, error) {
	return m.sign("voice-ai-server", videoGrant{
		Room:       room,
		RoomCreate: true,
		RoomAdmin:  true,
	}, time.Minute)
}

func (m *TokenMinter) sign(identity string, grant videoGrant, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   m.apiKey,
		"sub":   identity,
		"jti":   identity,
		"nbf":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"video": grant,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.apiSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
