package respond

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/llm"
	"voice-ai-be/pkg/memstore"
	"voice-ai-be/pkg/respcache"
	"voice-ai-be/pkg/respcache/drivers"
	"voice-ai-be/pkg/voice"
)

type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastSeen []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSeen = append([]llm.Message(nil), history...)
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

func (f *fakeProvider) messages() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSeen
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestGenerator(provider llm.LLMProvider) *Generator {
	cache := drivers.NewMemoryStore(time.Minute, 16)
	memory := memstore.New(time.Hour, 16)
	return NewGenerator(provider, cache, memory, logger.NopLogger{})
}

func turn(role, content string) voice.Turn {
	return voice.Turn{Role: role, Content: content, Timestamp: time.Now()}
}

func TestRespondPersonaRule(t *testing.T) {
	provider := &fakeProvider{reply: "Arr, matey."}
	g := newTestGenerator(provider)

	history := []voice.Turn{
		turn(voice.RoleUser, "You are a pirate."),
		turn(voice.RoleAssistant, "Arr."),
	}

	reply, err := g.Respond(context.Background(), "tell me about the sea", history)
	require.NoError(t, err)
	assert.Equal(t, "Arr, matey.", reply)

	messages := provider.messages()
	require.NotEmpty(t, messages)

	// The persona turn becomes a system instruction...
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "You are a pirate.")
	assert.Contains(t, messages[0].Content, "You are an AI assistant.")

	// ...and is never forwarded as a literal user message.
	for _, m := range messages[1:] {
		assert.NotEqual(t, "You are a pirate.", m.Content)
	}

	// The rest of the dialogue is forwarded verbatim.
	assert.Equal(t, llm.Message{Role: "assistant", Content: "Arr."}, messages[1])
	assert.Equal(t, llm.Message{Role: "user", Content: "tell me about the sea"}, messages[len(messages)-1])
}

func TestRespondDefaultSystemPrompt(t *testing.T) {
	provider := &fakeProvider{reply: "Hello."}
	g := newTestGenerator(provider)

	history := []voice.Turn{
		turn(voice.RoleAssistant, "Welcome!"),
		turn(voice.RoleUser, "hi"),
	}

	_, err := g.Respond(context.Background(), "how are you", history)
	require.NoError(t, err)

	messages := provider.messages()
	require.NotEmpty(t, messages)
	assert.Equal(t, DefaultSystemPrompt, messages[0].Content)
}

func TestRespondBoundsHistoryWindow(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	g := newTestGenerator(provider)

	history := []voice.Turn{turn(voice.RoleUser, "You are terse.")}
	for i := 0; i < 30; i++ {
		history = append(history, turn(voice.RoleUser, "ping"), turn(voice.RoleAssistant, "pong"))
	}

	_, err := g.Respond(context.Background(), "latest question", history)
	require.NoError(t, err)

	// system + bounded window + current input.
	messages := provider.messages()
	assert.LessOrEqual(t, len(messages), 1+personaWindow+1)
}

func TestRespondSkipsDuplicateInput(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	g := newTestGenerator(provider)

	history := []voice.Turn{
		turn(voice.RoleUser, "You are terse."),
		turn(voice.RoleUser, "what time is it"),
	}

	_, err := g.Respond(context.Background(), "what time is it", history)
	require.NoError(t, err)

	count := 0
	for _, m := range provider.messages() {
		if m.Role == "user" && m.Content == "what time is it" {
			count++
		}
	}
	assert.Equal(t, 1, count, "pre-appended input must not be sent twice")
}

func TestRespondFallbackOnProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model offline")}
	g := newTestGenerator(provider)

	reply, err := g.Respond(context.Background(), "hello", nil)
	require.NoError(t, err, "provider failure is recovered, not surfaced")
	assert.Equal(t, FallbackUtterance, reply)
}

func TestRespondFallbackOnEmptyReply(t *testing.T) {
	provider := &fakeProvider{reply: "   "}
	g := newTestGenerator(provider)

	reply, err := g.Respond(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackUtterance, reply)
}

func TestRespondRejectsEmptyInput(t *testing.T) {
	g := newTestGenerator(&fakeProvider{reply: "ok"})
	_, err := g.Respond(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, voice.ErrEmptyText)
}

func TestRespondCachesReplies(t *testing.T) {
	provider := &fakeProvider{reply: "cached answer"}
	g := newTestGenerator(provider)

	history := []voice.Turn{turn(voice.RoleUser, "You are helpful.")}

	first, err := g.Respond(context.Background(), "same question", history)
	require.NoError(t, err)
	second, err := g.Respond(context.Background(), "same question", history)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.callCount(), "second request served from cache")
}

func TestRespondCacheKeyedByContext(t *testing.T) {
	provider := &fakeProvider{reply: "answer"}
	g := newTestGenerator(provider)

	_, err := g.Respond(context.Background(), "question", []voice.Turn{turn(voice.RoleUser, "context A")})
	require.NoError(t, err)
	_, err = g.Respond(context.Background(), "question", []voice.Turn{turn(voice.RoleUser, "context B")})
	require.NoError(t, err)

	assert.Equal(t, 2, provider.callCount(), "different trailing context must miss the cache")
}

func TestFingerprintNormalization(t *testing.T) {
	a := respcache.Fingerprint("  What Time Is It ", []string{"ctx"})
	b := respcache.Fingerprint("what time is it", []string{"ctx"})
	assert.Equal(t, a, b, "fingerprint is case and whitespace insensitive")

	c := respcache.Fingerprint("what time is it", []string{"other"})
	assert.NotEqual(t, a, c)
}
