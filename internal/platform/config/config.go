package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName string
	AppEnv      string
	LogLevel    string
	HTTP        HTTPConfig

	DatabaseURL string
	NATSURL     string
	RedisURL    string

	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		ServiceName: getenv("SERVICE_NAME"),
		AppEnv:      getenv("APP_ENV"),
		LogLevel:    getenv("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Addr: getenv("HTTP_ADDR"),
		},
		DatabaseURL: getenv("DATABASE_URL"),
		NATSURL:     getenv("NATS_URL"),
		RedisURL:    getenv("REDIS_URL"),
		JWTSecret:   getenv("JWT_SECRET"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "shindora"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return AppConfig{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	cfg.TokenTTL = envDuration("TOKEN_TTL", 7*24*time.Hour)
	return cfg, nil
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
