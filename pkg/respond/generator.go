// Package respond builds generator requests from dialogue history and turns
// model output into assistant utterances, with a response cache and a
// best-effort user memory wrapped around the model call.
package respond

import (
	"context"
	"fmt"
	"strings"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/llm"
	"voice-ai-be/pkg/memstore"
	"voice-ai-be/pkg/respcache"
	"voice-ai-be/pkg/voice"
)

// FallbackUtterance is the only user-visible effect of a generation
// failure: a short apology, never silence and never a crash.
const FallbackUtterance = "I'm sorry, I'm having trouble processing your request right now. Could you please try again?"

// DefaultSystemPrompt is used when the dialogue does not open with a user
// turn to derive a persona from.
const DefaultSystemPrompt = "You are a helpful AI assistant. Respond naturally and conversationally based on the user's initialization message."

const (
	// personaWindow bounds the forwarded history when a persona instruction
	// was derived from the first turn. Chosen to balance context
	// completeness against request cost.
	personaWindow = 12
	// defaultWindow is the shorter bound used with the default system prompt.
	defaultWindow = 8
	// cacheWindow is how many trailing turns participate in the cache key.
	cacheWindow = 3
	// maxReplyTokens keeps responses concise for voice.
	maxReplyTokens = 150
)

// Generator implements voice.Responder.
type Generator struct {
	provider     llm.LLMProvider
	cache        respcache.Store
	memory       *memstore.Store
	systemPrompt string
	log          logger.ILogger
}

var _ voice.Responder = &Generator{}

func NewGenerator(provider llm.LLMProvider, cache respcache.Store, memory *memstore.Store, log logger.ILogger) *Generator {
	return &Generator{
		provider:     provider,
		cache:        cache,
		memory:       memory,
		systemPrompt: DefaultSystemPrompt,
		log:          log,
	}
}

// Respond produces the next assistant utterance. Provider failures are
// recovered locally: the caller gets FallbackUtterance, not an error.
func (g *Generator) Respond(ctx context.Context, input string, history []voice.Turn) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", voice.ErrEmptyText
	}

	key := respcache.Fingerprint(input, trailingContents(history, cacheWindow))
	if cached, ok := g.cache.Get(ctx, key); ok {
		g.log.Debug("Generator", "Response cache hit", map[string]interface{}{"key": key})
		return cached, nil
	}

	messages := g.buildMessages(input, history)

	reply, err := g.provider.Chat(ctx, messages,
		llm.WithMaxTokens(maxReplyTokens),
		llm.WithTemperature(0.7),
	)
	if err != nil {
		g.log.Error("Generator", "LLM generation failed", map[string]interface{}{"error": err.Error()})
		return FallbackUtterance, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackUtterance, nil
	}

	g.cache.Set(ctx, key, reply)
	g.remember(input, history)

	return reply, nil
}

// buildMessages assembles the provider message list. If the dialogue opens
// with a user turn, that turn is a persona instruction: it becomes a
// role-setting system message and is never forwarded as literal
// conversational content.
func (g *Generator) buildMessages(input string, history []voice.Turn) []llm.Message {
	var messages []llm.Message
	var recent []voice.Turn

	if len(history) > 0 && history[0].Role == voice.RoleUser {
		system := fmt.Sprintf(
			"You are an AI assistant. %s Respond naturally and conversationally based on this role.",
			history[0].Content,
		)
		messages = append(messages, llm.Message{Role: "system", Content: system})
		recent = boundedTail(history[1:], personaWindow)
	} else {
		messages = append(messages, llm.Message{Role: "system", Content: g.systemPrompt})
		recent = boundedTail(history, defaultWindow)
	}

	if hint := g.memoryHint(history); hint != "" {
		messages = append(messages, llm.Message{Role: "system", Content: hint})
	}

	for _, turn := range recent {
		if turn.Role != voice.RoleUser && turn.Role != voice.RoleAssistant {
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	// Callers that pre-append the current input to history would otherwise
	// make the model see it twice. Idempotency check, by contract.
	if len(recent) == 0 || recent[len(recent)-1].Content != input {
		messages = append(messages, llm.Message{Role: "user", Content: input})
	}

	return messages
}

// memoryHint surfaces what the store remembers about this user, if anything.
func (g *Generator) memoryHint(history []voice.Turn) string {
	if g.memory == nil || len(history) == 0 {
		return ""
	}
	entry, ok := g.memory.Recall(memstore.Fingerprint(history[0].Content))
	if !ok || entry.Summary == "" {
		return ""
	}
	return fmt.Sprintf("Background on this user from earlier conversations: %s", entry.Summary)
}

func (g *Generator) remember(input string, history []voice.Turn) {
	if g.memory == nil || len(history) == 0 {
		return
	}
	g.memory.Observe(memstore.Fingerprint(history[0].Content), []string{input})
}

func boundedTail(turns []voice.Turn, n int) []voice.Turn {
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}

func trailingContents(history []voice.Turn, n int) []string {
	tail := boundedTail(history, n)
	out := make([]string, len(tail))
	for i, t := range tail {
		out[i] = t.Content
	}
	return out
}
