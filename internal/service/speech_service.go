package service

import (
	"context"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/speech"
)

// ISpeechService exposes direct text-to-speech, outside any session.
type ISpeechService interface {
	Synthesize(ctx context.Context, request *dto.SynthesizeRequest) ([]byte, error)
}

type speechService struct {
	synthesizer speech.Synthesizer
	log         logger.ILogger
}

func NewSpeechService(synthesizer speech.Synthesizer, log logger.ILogger) ISpeechService {
	return &speechService{synthesizer: synthesizer, log: log}
}

// Synthesize returns encoded audio for the text. MP3 here: the result goes
// straight back over HTTP, not into a realtime track.
func (s *speechService) Synthesize(ctx context.Context, request *dto.SynthesizeRequest) ([]byte, error) {
	audio, err := s.synthesizer.Synthesize(ctx, request.Text, speech.SynthesizeOpts{
		Voice:  request.Voice,
		Format: speech.FormatMP3,
	})
	if err != nil {
		s.log.Error("SpeechService", "Synthesis failed", map[string]interface{}{
			"error":    err.Error(),
			"text_len": len(request.Text),
		})
		return nil, err
	}
	return audio, nil
}
