package voice

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/speech"
)

// Settings are the tunables of one session's audio pipeline.
type Settings struct {
	SilenceThreshold float64
	MaxSilence       time.Duration
	SampleRate       int
	NumChannels      int
	FrameMillis      int
	Voice            string
}

// DefaultSettings returns the standard pipeline tuning: 24kHz mono frames,
// 20ms pacing, 2 seconds of silence as the utterance endpoint.
func DefaultSettings() Settings {
	return Settings{
		SilenceThreshold: DefaultSilenceThreshold,
		MaxSilence:       2 * time.Second,
		SampleRate:       24000,
		NumChannels:      1,
		FrameMillis:      20,
	}
}

// Deps are the collaborators a session drives. All are required except Sink,
// which defaults to NopSink.
type Deps struct {
	Transcriber speech.Transcriber
	Responder   Responder
	Synthesizer speech.Synthesizer
	Transport   Transport
	Sink        EventSink
	Logger      logger.ILogger
}

// Session owns one conversation's audio buffer, dialogue history and
// processing state, and drives the receive → detect-silence → transcribe →
// generate → synthesize → emit cycle. The session is the sole mutator of its
// buffer and history.
type Session struct {
	ID       string
	RoomName string

	deps     Deps
	settings Settings
	detector *Detector

	createdAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc

	// processing guards against concurrent pipeline runs. It is the sole
	// concurrency primitive protecting a cycle: checked-and-set atomically
	// relative to frame ingestion.
	processing atomic.Bool

	mu      sync.Mutex
	buffer  []byte
	history []Turn
	silence time.Duration
}

// Snapshot is a point-in-time view of a session's state.
type Snapshot struct {
	ID           string    `json:"session_id"`
	RoomName     string    `json:"room_name"`
	IsProcessing bool      `json:"is_processing"`
	History      []Turn    `json:"conversation_history"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSession builds a session bound to a connected transport.
func NewSession(id, roomName string, deps Deps, settings Settings) *Session {
	if deps.Sink == nil {
		deps.Sink = NopSink{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        id,
		RoomName:  roomName,
		deps:      deps,
		settings:  settings,
		detector:  NewDetector(settings.SilenceThreshold),
		createdAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// IngestFrame feeds one inbound audio frame into the session. Frames
// arriving while a processing cycle is in flight are dropped, not queued:
// late frames are presumed superseded, and bounding the buffer this way is a
// deliberate load-shedding choice.
func (s *Session) IngestFrame(frame AudioFrame) {
	if s.processing.Load() {
		return
	}

	s.mu.Lock()
	s.buffer = append(s.buffer, frame.Bytes()...)
	if s.detector.IsSilence(frame.Data) {
		s.silence += frame.Duration()
	} else {
		s.silence = 0
	}

	var snapshot []byte
	if s.silence >= s.settings.MaxSilence && len(s.buffer) > 0 &&
		s.processing.CompareAndSwap(false, true) {
		snapshot = make([]byte, len(s.buffer))
		copy(snapshot, s.buffer)
	}
	s.mu.Unlock()

	if snapshot != nil {
		go s.runPipeline(snapshot)
	}
}

// runPipeline executes one transcribe → generate → synthesize → emit cycle.
// A failure at any step is logged and falls through to cleanup without
// propagating; a spoken pipeline must never crash its session. Cleanup
// always clears the buffer and silence counter and releases the processing
// guard.
func (s *Session) runPipeline(audio []byte) {
	defer func() {
		s.mu.Lock()
		s.buffer = s.buffer[:0]
		s.silence = 0
		s.mu.Unlock()
		s.processing.Store(false)
	}()

	ctx := s.ctx

	transcript, err := s.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.logError("transcription failed", err)
		s.deps.Sink.OnError(s.ID, err)
		return
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.deps.Logger.Debug("VoiceSession", "No speech detected in audio", map[string]interface{}{"session_id": s.ID})
		return
	}

	s.appendTurn(RoleUser, transcript)
	s.deps.Sink.OnTranscript(s.ID, transcript)

	reply, err := s.deps.Responder.Respond(ctx, transcript, s.History())
	if err != nil {
		s.logError("response generation failed", err)
		s.deps.Sink.OnError(s.ID, err)
		return
	}

	s.appendTurn(RoleAssistant, reply)
	s.deps.Sink.OnResponse(s.ID, reply)

	spoken, clipped := CompactForSpeech(reply)
	if clipped {
		s.deps.Logger.Warn("VoiceSession", "Response hard-truncated for speech", map[string]interface{}{
			"session_id": s.ID,
			"length":     len(reply),
		})
	}
	if spoken == "" {
		return
	}

	opts := speech.SynthesizeOpts{Voice: s.settings.Voice, Format: speech.FormatPCM}
	err = s.deps.Synthesizer.SynthesizeStream(ctx, spoken, opts, func(chunk speech.AudioChunk) error {
		s.deps.Sink.OnAudioChunk(s.ID, chunk)
		return s.playAudio(ctx, chunk.Audio)
	})
	if err != nil {
		s.logError("speech synthesis failed", err)
	}
}

// playAudio frames raw PCM and writes it to the transport at real-time pace.
func (s *Session) playAudio(ctx context.Context, pcm []byte) error {
	frames := FramesFromPCM(pcm, s.settings.SampleRate, s.settings.NumChannels, s.settings.FrameMillis)
	if len(frames) == 0 {
		return nil
	}

	interval := frames[0].Duration()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, frame := range frames {
		if err := s.deps.Transport.PublishFrame(ctx, frame); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// AcceptTranscript handles a client-supplied transcript, bypassing
// server-side speech recognition: it appends the user turn, generates a
// reply and appends it, firing the transcript and response events in order.
// No audio is synthesized on this path; playback is the client's concern.
func (s *Session) AcceptTranscript(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	s.appendTurn(RoleUser, text)
	s.deps.Sink.OnTranscript(s.ID, text)

	reply, err := s.deps.Responder.Respond(ctx, text, s.History())
	if err != nil {
		s.logError("response generation failed", err)
		s.deps.Sink.OnError(s.ID, err)
		return "", err
	}

	s.appendTurn(RoleAssistant, reply)
	s.deps.Sink.OnResponse(s.ID, reply)
	return reply, nil
}

// SeedPersona stores a persona instruction as the opening user turn. The
// generator reinterprets a leading user turn as a role instruction rather
// than conversational content, so seeding must happen before any dialogue.
func (s *Session) SeedPersona(persona string) {
	s.appendTurn(RoleUser, persona)
}

func (s *Session) appendTurn(role, content string) {
	s.mu.Lock()
	s.history = append(s.history, Turn{Role: role, Content: content, Timestamp: time.Now()})
	s.mu.Unlock()
}

// History returns a copy of the dialogue history in chronological order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// IsProcessing reports whether a pipeline cycle is in flight.
func (s *Session) IsProcessing() bool {
	return s.processing.Load()
}

// Age returns how long the session has existed.
func (s *Session) Age() time.Duration {
	return time.Since(s.createdAt)
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID,
		RoomName:     s.RoomName,
		IsProcessing: s.processing.Load(),
		History:      s.History(),
		CreatedAt:    s.createdAt,
	}
}

// close interrupts any in-flight processing and disconnects the transport.
// The disconnect is unconditional; its error is returned for the caller to
// log, never to block teardown.
func (s *Session) close(ctx context.Context) error {
	s.cancel()
	return s.deps.Transport.Disconnect(ctx)
}

func (s *Session) logError(msg string, err error) {
	s.deps.Logger.Error("VoiceSession", msg, map[string]interface{}{
		"session_id": s.ID,
		"error":      err.Error(),
	})
}
