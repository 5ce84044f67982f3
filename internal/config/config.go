package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppPort     string
	DatabaseURL string
	LogLevel    string
	TokenSecret string
}

// Load reads configuration from the environment, with a local .env file as
// fallback for development. The token secret is read here, after the .env
// fallback is applied, so a secret defined only in .env is picked up.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppPort:     getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		TokenSecret: os.Getenv("TOKEN_AUTH_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
