package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"PREDICT_API_URL", "SERVER_PORT", "LOG_LEVEL", "REQUEST_TIMEOUT",
	"BREAKER_THRESHOLD", "SESSION_TTL", "MAX_SESSIONS", "CORS_ORIGINS",
}

// clearEnv удаляет переменные окружения; t.Setenv восстановит их после теста
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5001/api/predict", cfg.PredictAPIURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, uint32(0), cfg.BreakerThreshold, "breaker выключен по умолчанию")
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.MaxSessions)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREDICT_API_URL", "https://forecast.example.com/api/predict")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("BREAKER_THRESHOLD", "3")
	t.Setenv("MAX_SESSIONS", "50")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://app.example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://forecast.example.com/api/predict", cfg.PredictAPIURL)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint32(3), cfg.BreakerThreshold)
	assert.Equal(t, 50, cfg.MaxSessions)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"url without scheme", "PREDICT_API_URL", "127.0.0.1:5001/api/predict"},
		{"non numeric port", "SERVER_PORT", "http"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"bad duration", "SESSION_TTL", "soon"},
		{"negative timeout", "REQUEST_TIMEOUT", "-1s"},
		{"zero sessions", "MAX_SESSIONS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
