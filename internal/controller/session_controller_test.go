package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-ai-be/internal/dto"
	"voice-ai-be/pkg/voice"
)

type fakeSessionService struct {
	createRes *dto.CreateSessionResponse
	createErr error
	getRes    *dto.SessionStateResponse
	getErr    error
	endErr    error
}

func (f *fakeSessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	return f.createRes, f.createErr
}

func (f *fakeSessionService) Get(ctx context.Context, id string) (*dto.SessionStateResponse, error) {
	return f.getRes, f.getErr
}

func (f *fakeSessionService) End(ctx context.Context, id string) error {
	return f.endErr
}

func (f *fakeSessionService) AcceptTranscript(ctx context.Context, id, text string) (string, error) {
	return "", nil
}

func (f *fakeSessionService) Status(id string) (bool, int, error) {
	return false, 0, nil
}

func (f *fakeSessionService) SweepIdle(ctx context.Context, threshold time.Duration) []string {
	return nil
}

func newSessionTestApp(svc *fakeSessionService) *fiber.App {
	app := fiber.New()
	NewSessionController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestCreateSessionEndpoint(t *testing.T) {
	svc := &fakeSessionService{
		createRes: &dto.CreateSessionResponse{
			SessionID:  "abc",
			RoomName:   "voice-ai-abc",
			Token:      "jwt",
			LiveKitURL: "wss://lk.example.com",
		},
	}
	app := newSessionTestApp(svc)

	req := httptest.NewRequest("POST", "/api/session/v1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Success bool                     `json:"success"`
		Data    dto.CreateSessionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "abc", body.Data.SessionID)
	assert.Equal(t, "voice-ai-abc", body.Data.RoomName)
}

func TestCreateSessionConflict(t *testing.T) {
	app := newSessionTestApp(&fakeSessionService{createErr: voice.ErrSessionExists})

	req := httptest.NewRequest("POST", "/api/session/v1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestCreateSessionRejectsBadPersona(t *testing.T) {
	app := newSessionTestApp(&fakeSessionService{})

	payload := `{"persona":"` + strings.Repeat("x", 2100) + `"}`
	req := httptest.NewRequest("POST", "/api/session/v1", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestShowSessionNotFound(t *testing.T) {
	app := newSessionTestApp(&fakeSessionService{getErr: voice.ErrSessionNotFound})

	req := httptest.NewRequest("GET", "/api/session/v1/unknown", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestEndSession(t *testing.T) {
	app := newSessionTestApp(&fakeSessionService{})

	req := httptest.NewRequest("DELETE", "/api/session/v1/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestEndSessionTwiceNotFound(t *testing.T) {
	app := newSessionTestApp(&fakeSessionService{endErr: voice.ErrSessionNotFound})

	req := httptest.NewRequest("DELETE", "/api/session/v1/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
