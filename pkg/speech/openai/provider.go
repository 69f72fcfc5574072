package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"voice-ai-be/pkg/speech"
	"voice-ai-be/pkg/voice"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider implements speech.Transcriber and speech.Synthesizer against the
// OpenAI audio APIs (Whisper for transcription, the speech endpoint for
// synthesis).
type Provider struct {
	BaseURL      string
	APIKey       string
	WhisperModel string
	TTSModel     string
	DefaultVoice string
	SampleRate   int
	NumChannels  int
	Client       *http.Client

	chunker *voice.Chunker
}

var (
	_ speech.Transcriber = &Provider{}
	_ speech.Synthesizer = &Provider{}
)

func NewProvider(apiKey string) *Provider {
	return &Provider{
		BaseURL:      defaultBaseURL,
		APIKey:       apiKey,
		WhisperModel: "whisper-1",
		TTSModel:     "tts-1",
		DefaultVoice: "alloy",
		SampleRate:   24000,
		NumChannels:  1,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
		chunker: voice.NewChunker(),
	}
}

// Transcribe uploads WAV-wrapped PCM to the transcription endpoint and
// returns the plain-text transcript. An empty transcript is not an error.
func (p *Provider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "speech.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wrapWAV(audio, p.SampleRate, p.NumChannels)); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := writer.WriteField("model", p.WhisperModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	url := p.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	return strings.TrimSpace(string(bodyBytes)), nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize converts the whole text to audio in one call.
func (p *Provider) Synthesize(ctx context.Context, text string, opts speech.SynthesizeOpts) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, voice.ErrEmptyText
	}

	vox := opts.Voice
	if vox == "" {
		vox = p.DefaultVoice
	}
	format := opts.Format
	if format == "" {
		format = speech.FormatPCM
	}

	payload, err := json.Marshal(speechRequest{
		Model:          p.TTSModel,
		Voice:          vox,
		Input:          text,
		ResponseFormat: string(format),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}

// SynthesizeStream splits the text into speakable segments and synthesizes
// each one, emitting ordered chunks for progressive playback.
func (p *Provider) SynthesizeStream(ctx context.Context, text string, opts speech.SynthesizeOpts, emit func(speech.AudioChunk) error) error {
	segments := p.chunker.Split(text)
	if len(segments) == 0 {
		return nil
	}

	for i, segment := range segments {
		audio, err := p.Synthesize(ctx, segment.Text, opts)
		if err != nil {
			return fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(segments), err)
		}
		chunk := speech.AudioChunk{
			Index:       i,
			TotalChunks: len(segments),
			Audio:       audio,
			SourceText:  segment.Text,
			IsFinal:     i == len(segments)-1,
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return nil
}
