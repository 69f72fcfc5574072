package speech

import (
	"context"
)

// AudioFormat identifies the encoding of synthesized audio.
type AudioFormat string

const (
	// FormatPCM is raw signed 16-bit little-endian PCM, suitable for framing
	// into a real-time transport.
	FormatPCM AudioFormat = "pcm"
	// FormatMP3 is an encoded container, suitable for direct HTTP delivery.
	FormatMP3 AudioFormat = "mp3"
)

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Voice selects the speaker voice. Empty uses the provider default.
	Voice string

	// Format selects the output encoding. Empty defaults to FormatPCM.
	Format AudioFormat
}

// AudioChunk is one segment of a streamed synthesis result, delivered in
// order for progressive playback.
type AudioChunk struct {
	Index       int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	Audio       []byte `json:"audio_bytes"`
	SourceText  string `json:"source_text"`
	IsFinal     bool   `json:"is_final"`
}

// Transcriber converts a block of raw audio samples to text.
type Transcriber interface {
	// Transcribe returns the transcript of the given 16-bit PCM audio.
	// An empty string means no speech was recognized.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates audio for the whole text in one shot.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) ([]byte, error)

	// SynthesizeStream splits the text at natural speech boundaries and
	// synthesizes each segment, calling emit for every chunk in order.
	// A non-nil error from emit aborts the stream.
	SynthesizeStream(ctx context.Context, text string, opts SynthesizeOpts, emit func(AudioChunk) error) error
}
