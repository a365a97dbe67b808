package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_DURATION", "2h")
	t.Setenv("PRINT_TOKEN_TTL", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000 ,")
	t.Setenv("TRIAL_DAYS", "30")
	t.Setenv("FRONTEND_BASE_URL", "https://app.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 5*time.Minute, cfg.PrintTokenTTL)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.TrialDays)
	assert.Equal(t, "https://app.example.com", cfg.FrontendBaseURL)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
}

func TestLoadConfigUnknownDriverFallsBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
}
