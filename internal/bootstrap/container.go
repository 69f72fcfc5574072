package bootstrap

import (
	"log"
	"time"

	"voice-ai-be/internal/config"
	"voice-ai-be/internal/controller"
	"voice-ai-be/internal/handler"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/service"
	"voice-ai-be/internal/websocket"
	"voice-ai-be/pkg/events"
	"voice-ai-be/pkg/livekit"
	"voice-ai-be/pkg/llm/factory"
	"voice-ai-be/pkg/memstore"
	"voice-ai-be/pkg/respcache"
	"voice-ai-be/pkg/respond"
	openaispeech "voice-ai-be/pkg/speech/openai"
	"voice-ai-be/pkg/voice"

	pktNats "voice-ai-be/pkg/nats"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	SpeechController  controller.ISpeechController

	// WebSocket handshake
	VoiceStreamHandler *handler.VoiceStreamHandler

	// Exposed for main.go lifecycle management
	SessionService service.ISessionService
	WebSocketHub   *websocket.Hub
	EventBus       *events.Bus
	NatsPublisher  *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus + optional NATS mirror
	eventBus := events.NewBus()

	var mirror events.Mirror
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			mirror = pub
			natsPub = pub
		}
	}

	sink := events.NewSink(eventBus, mirror, sysLogger)

	// 3. AI capabilities
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.OpenAI.APIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	speechProvider := openaispeech.NewProvider(cfg.OpenAI.APIKey)
	speechProvider.WhisperModel = cfg.OpenAI.WhisperModel
	speechProvider.TTSModel = cfg.OpenAI.TTSModel
	speechProvider.DefaultVoice = cfg.OpenAI.TTSVoice
	speechProvider.SampleRate = cfg.Voice.SampleRate

	responseCache, err := respcache.New(respcache.Options{
		Driver:     cfg.Cache.Driver,
		TTL:        time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		MaxEntries: cfg.Cache.MaxEntries,
		RedisURL:   cfg.App.RedisURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize response cache: %v", err)
	}
	memory := memstore.New(24*time.Hour, 100)

	generator := respond.NewGenerator(llmProvider, responseCache, memory, sysLogger)

	// 4. Realtime transport
	rtc := livekit.NewService(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, sysLogger)

	// 5. Voice session registry
	settings := voice.DefaultSettings()
	settings.SilenceThreshold = cfg.Voice.SilenceThreshold
	settings.MaxSilence = time.Duration(cfg.Voice.MaxSilenceMillis) * time.Millisecond
	settings.SampleRate = cfg.Voice.SampleRate
	settings.FrameMillis = cfg.Voice.FrameMillis
	settings.Voice = cfg.OpenAI.TTSVoice

	registry := voice.NewRegistry(
		speechProvider,
		generator,
		speechProvider,
		rtc,
		sink,
		settings,
		sysLogger,
	)

	// 6. Services
	sessionService := service.NewSessionService(registry, rtc, speechProvider, cfg.LiveKit.URL, sysLogger)
	speechService := service.NewSpeechService(speechProvider, sysLogger)

	// 7. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(eventBus, wsLogger)

	return &Container{
		SessionController:  controller.NewSessionController(sessionService),
		SpeechController:   controller.NewSpeechController(speechService),
		VoiceStreamHandler: handler.NewVoiceStreamHandler(wsHub, sessionService, wsLogger),
		SessionService:     sessionService,
		WebSocketHub:       wsHub,
		EventBus:           eventBus,
		NatsPublisher:      natsPub,
	}
}
