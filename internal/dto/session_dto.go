package dto

import "voice-ai-be/pkg/voice"

type CreateSessionRequest struct {
	// Optional persona for the conversation; stored as the first user turn
	// and reformulated into a system instruction by the generator.
	Persona string `json:"persona" validate:"omitempty,max=2000"`
	Voice   string `json:"voice" validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
}

type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	RoomName   string `json:"room_name"`
	Token      string `json:"token"`
	LiveKitURL string `json:"livekit_url"`
}

type SessionStateResponse struct {
	voice.Snapshot
}

type EndSessionResponse struct {
	SessionID string `json:"session_id"`
}
