package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENHANCE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Enhance.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Enhance.Model)
	assert.Equal(t, "https://image.pollinations.ai", cfg.Image.BaseURL)
	assert.Equal(t, 1920, cfg.Image.Width)
	assert.Equal(t, 1920, cfg.Image.Height)
	assert.Equal(t, "flux", cfg.Image.Model)
	assert.True(t, cfg.Image.Enhance)
	assert.Equal(t, 40, cfg.Readiness.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Readiness.Interval)
	assert.Equal(t, 1000, cfg.Readiness.MinDimension)
	assert.Equal(t, 8*time.Second, cfg.Queue.Retention)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENHANCE_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("IMAGE_WIDTH", "1024")
	t.Setenv("READY_INTERVAL_SECONDS", "1")
	t.Setenv("ENHANCE_RPS", "2.5")
	t.Setenv("IMAGE_ENHANCE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 1024, cfg.Image.Width)
	assert.Equal(t, time.Second, cfg.Readiness.Interval)
	assert.InDelta(t, 2.5, cfg.Enhance.RPS, 0.001)
	assert.False(t, cfg.Image.Enhance)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENHANCE_API_KEY", "test-key")
	t.Setenv("IMAGE_WIDTH", "not-a-number")
	t.Setenv("IMAGE_ENHANCE", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Image.Width)
	assert.True(t, cfg.Image.Enhance)
}

func TestValidate(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("ENHANCE_API_KEY", "test-key")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("missing enhance api key", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("ENHANCE_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ENHANCE_API_KEY")
	})
}
