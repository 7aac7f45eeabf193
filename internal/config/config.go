// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/easeaico/deskpet/internal/models"
	"github.com/easeaico/deskpet/internal/mood"
)

// Config holds runtime settings.
type Config struct {
	Provider         models.Provider
	LLMModel         string
	GoogleAPIKey     string
	OpenAIAPIKey     string
	XAIAPIKey        string
	OpenRouterAPIKey string
	DatabaseURL      string
	WorkDir          string
	AssetsDir        string
	FrameInterval    time.Duration
	InitialMood      int
	FeedWindow       time.Duration
	FeedThreshold    int
	HistoryLimit     int
	PetMode          bool
	LogLevel         string
}

// Load reads .env and the environment, applies defaults, and exits on
// invalid settings.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// LoadFromEnv reads the environment, applies defaults, and validates.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		LLMModel:         os.Getenv("LLM_MODEL"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		XAIAPIKey:        os.Getenv("XAI_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WorkDir:          os.Getenv("WORK_DIR"),
		AssetsDir:        os.Getenv("ASSETS_DIR"),
		LogLevel:         strings.ToLower(os.Getenv("LOG_LEVEL")),
	}

	providerName := os.Getenv("LLM_PROVIDER")
	if providerName == "" {
		providerName = string(models.ProviderGemini)
	}
	provider, err := models.ParseProvider(providerName)
	if err != nil {
		return Config{}, fmt.Errorf("LLM_PROVIDER: %w", err)
	}
	cfg.Provider = provider

	cfg.FrameInterval = time.Duration(getEnvInt("FRAME_INTERVAL_MS", 100)) * time.Millisecond
	cfg.InitialMood = getEnvInt("INITIAL_MOOD", mood.DefaultScore)
	cfg.FeedWindow = time.Duration(getEnvInt("FEED_WINDOW_SECONDS", 30)) * time.Second
	cfg.FeedThreshold = getEnvInt("FEED_THRESHOLD", mood.DefaultFeedThreshold)
	cfg.HistoryLimit = getEnvInt("HISTORY_LIMIT", 10)
	cfg.PetMode = getEnvBool("PET_MODE", true)

	if cfg.WorkDir == "" {
		cfg.WorkDir, _ = os.Getwd()
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = filepath.Join(cfg.WorkDir, "images")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModel(cfg.Provider)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case models.ProviderOpenAI:
		return c.OpenAIAPIKey
	case models.ProviderGrok:
		return c.XAIAPIKey
	case models.ProviderOpenRouter:
		return c.OpenRouterAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultModel(provider models.Provider) string {
	switch provider {
	case models.ProviderOpenAI:
		return "gpt-4o-mini"
	case models.ProviderGrok:
		return "grok-4-fast"
	case models.ProviderOpenRouter:
		return "google/gemini-2.5-flash"
	default:
		return "gemini-2.5-flash"
	}
}

func validate(cfg *Config) error {
	if cfg.APIKey() == "" {
		return fmt.Errorf("%s environment variable is required for provider %s", apiKeyEnv(cfg.Provider), cfg.Provider)
	}
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("FRAME_INTERVAL_MS must be positive")
	}
	if cfg.FeedWindow <= 0 {
		return fmt.Errorf("FEED_WINDOW_SECONDS must be positive")
	}
	if cfg.FeedThreshold <= 0 {
		return fmt.Errorf("FEED_THRESHOLD must be positive")
	}
	if cfg.InitialMood < mood.MinScore || cfg.InitialMood > mood.MaxScore {
		return fmt.Errorf("INITIAL_MOOD must be between %d and %d", mood.MinScore, mood.MaxScore)
	}
	return nil
}

func apiKeyEnv(provider models.Provider) string {
	switch provider {
	case models.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case models.ProviderGrok:
		return "XAI_API_KEY"
	case models.ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
