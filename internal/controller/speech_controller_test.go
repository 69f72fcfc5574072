package controller

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-ai-be/internal/dto"
)

type fakeSpeechService struct {
	audio []byte
	err   error
}

func (f *fakeSpeechService) Synthesize(ctx context.Context, req *dto.SynthesizeRequest) ([]byte, error) {
	return f.audio, f.err
}

func newSpeechTestApp(svc *fakeSpeechService) *fiber.App {
	app := fiber.New()
	NewSpeechController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestSynthesizeEndpoint(t *testing.T) {
	app := newSpeechTestApp(&fakeSpeechService{audio: []byte("mp3-bytes")})

	req := httptest.NewRequest("POST", "/api/speech/v1/synthesize", strings.NewReader(`{"text":"Hello."}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, []byte("mp3-bytes"), body)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	app := newSpeechTestApp(&fakeSpeechService{})

	req := httptest.NewRequest("POST", "/api/speech/v1/synthesize", strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSynthesizeRejectsBadBody(t *testing.T) {
	app := newSpeechTestApp(&fakeSpeechService{})

	req := httptest.NewRequest("POST", "/api/speech/v1/synthesize", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
