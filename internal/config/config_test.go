package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easeaico/deskpet/internal/models"
)

var envKeys = []string{
	"LLM_PROVIDER", "LLM_MODEL", "GOOGLE_API_KEY", "OPENAI_API_KEY", "XAI_API_KEY",
	"OPENROUTER_API_KEY", "DATABASE_URL", "WORK_DIR", "ASSETS_DIR", "FRAME_INTERVAL_MS",
	"INITIAL_MOOD", "FEED_WINDOW_SECONDS", "FEED_THRESHOLD", "HISTORY_LIMIT", "PET_MODE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("WORK_DIR", "/srv/pet")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, models.ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, filepath.Join("/srv/pet", "images"), cfg.AssetsDir)
	assert.Equal(t, 100*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 81, cfg.InitialMood)
	assert.Equal(t, 30*time.Second, cfg.FeedWindow)
	assert.Equal(t, 3, cfg.FeedThreshold)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.True(t, cfg.PetMode)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "grok")
	t.Setenv("XAI_API_KEY", "x-key")
	t.Setenv("ASSETS_DIR", "/opt/sprites")
	t.Setenv("FRAME_INTERVAL_MS", "40")
	t.Setenv("INITIAL_MOOD", "55")
	t.Setenv("FEED_WINDOW_SECONDS", "10")
	t.Setenv("FEED_THRESHOLD", "5")
	t.Setenv("PET_MODE", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, models.ProviderGrok, cfg.Provider)
	assert.Equal(t, "grok-4-fast", cfg.LLMModel)
	assert.Equal(t, "x-key", cfg.APIKey())
	assert.Equal(t, "/opt/sprites", cfg.AssetsDir)
	assert.Equal(t, 40*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 55, cfg.InitialMood)
	assert.Equal(t, 10*time.Second, cfg.FeedWindow)
	assert.Equal(t, 5, cfg.FeedThreshold)
	assert.False(t, cfg.PetMode)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFromEnvRequiresProviderKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"LLM_PROVIDER":   "clippy",
		"INITIAL_MOOD":   "150",
		"FEED_THRESHOLD": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_API_KEY", "g-key")
			t.Setenv(key, value)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}
