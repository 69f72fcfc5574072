package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	LiveKit LiveKitConfig
	OpenAI  OpenAIConfig
	Ai      AIConfig
	Cache   CacheConfig
	Voice   VoiceConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string
}

type OpenAIConfig struct {
	APIKey       string
	WhisperModel string
	TTSModel     string
	TTSVoice     string
}

type AIConfig struct {
	LLMProvider   string // "openai", "ollama"
	LLMModel      string // e.g. "gpt-4o-mini", "llama3"
	OllamaBaseURL string
}

type CacheConfig struct {
	Driver     string // "memory" or "redis"
	TTLSeconds int
	MaxEntries int
}

type VoiceConfig struct {
	SilenceThreshold float64
	MaxSilenceMillis int
	SampleRate       int
	FrameMillis      int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", ""),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			WhisperModel: getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
			TTSModel:     getEnv("OPENAI_TTS_MODEL", "tts-1"),
			TTSVoice:     getEnv("OPENAI_TTS_VOICE", "alloy"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Cache: CacheConfig{
			Driver:     getEnv("RESPONSE_CACHE_DRIVER", "memory"),
			TTLSeconds: getEnvAsInt("RESPONSE_CACHE_TTL_SECONDS", 300),
			MaxEntries: getEnvAsInt("RESPONSE_CACHE_MAX_ENTRIES", 100),
		},
		Voice: VoiceConfig{
			SilenceThreshold: getEnvAsFloat("VOICE_SILENCE_THRESHOLD", 0.01),
			MaxSilenceMillis: getEnvAsInt("VOICE_MAX_SILENCE_MS", 2000),
			SampleRate:       getEnvAsInt("VOICE_SAMPLE_RATE", 24000),
			FrameMillis:      getEnvAsInt("VOICE_FRAME_MS", 20),
		},
	}
}

// Validate reports every required key missing from the environment at once,
// so operators fix the deployment in one pass.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.LiveKit.URL == "" {
		missing = append(missing, "LIVEKIT_URL")
	}
	if c.LiveKit.APIKey == "" {
		missing = append(missing, "LIVEKIT_API_KEY")
	}
	if c.LiveKit.APISecret == "" {
		missing = append(missing, "LIVEKIT_API_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
