package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultPredictAPIURL адрес сервиса предсказаний, если PREDICT_API_URL не задан
const DefaultPredictAPIURL = "http://127.0.0.1:5001/api/predict"

type Config struct {
	PredictAPIURL    string        `envconfig:"PREDICT_API_URL" validate:"required,http_url"`
	ServerPort       string        `envconfig:"SERVER_PORT" default:"8080" validate:"required,numeric"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"0s" validate:"gte=0"` // 0 - без таймаута
	BreakerThreshold uint32        `envconfig:"BREAKER_THRESHOLD" default:"0"`                 // 0 - без breaker
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"30m" validate:"gt=0"`
	MaxSessions      int           `envconfig:"MAX_SESSIONS" default:"10000" validate:"gt=0"`
	CORSOrigins      []string      `envconfig:"CORS_ORIGINS" default:"*" validate:"min=1,dive,required"`
}

func Load() (*Config, error) {
	// Загружаем .env файл если существует
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения окружения: %w", err)
	}
	if cfg.PredictAPIURL == "" {
		cfg.PredictAPIURL = DefaultPredictAPIURL
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return &cfg, nil
}

// SlogLevel уровень логирования для slog
func (c *Config) SlogLevel() slog.Level {
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
