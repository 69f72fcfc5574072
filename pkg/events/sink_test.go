package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/speech"
)

type recordingMirror struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (m *recordingMirror) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *recordingMirror) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func receiveEvent(t *testing.T, bus *Bus, topic string, run func()) ClientEvent {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, topic)
	require.NoError(t, err)

	run()

	select {
	case msg := <-messages:
		msg.Ack()
		var evt ClientEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("no message on %s", topic)
		return ClientEvent{}
	}
}

func TestSinkPublishesTranscript(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	sink := NewSink(bus, nil, logger.NopLogger{})

	evt := receiveEvent(t, bus, TopicTranscript, func() {
		sink.OnTranscript("s1", "hello there")
	})
	assert.Equal(t, "transcript", evt.Type)
	assert.Equal(t, "s1", evt.SessionID)
	assert.Equal(t, "hello there", evt.Text)
}

func TestSinkPublishesResponseAndError(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	sink := NewSink(bus, nil, logger.NopLogger{})

	evt := receiveEvent(t, bus, TopicResponse, func() {
		sink.OnResponse("s1", "Hi.")
	})
	assert.Equal(t, "ai_response", evt.Type)
	assert.Equal(t, "Hi.", evt.Text)

	evt = receiveEvent(t, bus, TopicError, func() {
		sink.OnError("s1", errors.New("stt down"))
	})
	assert.Equal(t, "error", evt.Type)
	assert.Equal(t, "stt down", evt.Message)
}

func TestSinkPublishesAudioChunk(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	sink := NewSink(bus, nil, logger.NopLogger{})

	evt := receiveEvent(t, bus, TopicAudio, func() {
		sink.OnAudioChunk("s1", speech.AudioChunk{Index: 2, TotalChunks: 3, SourceText: "Hi.", IsFinal: false})
	})
	assert.Equal(t, "audio_chunk", evt.Type)
	require.NotNil(t, evt.Chunk)
	assert.Equal(t, 2, evt.Chunk.Index)
	assert.Equal(t, 3, evt.Chunk.TotalChunks)
}

func TestSinkMirrorsEvents(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	mirror := &recordingMirror{}
	sink := NewSink(bus, mirror, logger.NopLogger{})

	sink.OnTranscript("s1", "hello")
	require.Equal(t, 1, mirror.count())

	mirror.mu.Lock()
	evt := mirror.events[0]
	mirror.mu.Unlock()
	assert.Equal(t, "TRANSCRIPT", evt.EventType())
	assert.Equal(t, "s1", evt.Payload()["session_id"])
}

func TestSinkSwallowsMirrorFailure(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	mirror := &recordingMirror{err: errors.New("nats gone")}
	sink := NewSink(bus, mirror, logger.NopLogger{})

	// Must not panic or block the pipeline.
	sink.OnResponse("s1", "Hi.")
	assert.Equal(t, 1, mirror.count())
}
