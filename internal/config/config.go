// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBPath      string
	LogLevel    string
	TokenSecret string

	// Bootstrap admin created at startup when no admin exists.
	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// Load reads HALALAN_* variables, consulting .env first when present.
// Missing optional values fall back to development defaults; the token
// secret is required because admin sessions are signed with it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getenv("HALALAN_PORT", "8080"),
		DBPath:        getenv("HALALAN_DB_PATH", "halalan.db"),
		LogLevel:      getenv("HALALAN_LOG_LEVEL", "info"),
		TokenSecret:   os.Getenv("HALALAN_TOKEN_SECRET"),
		AdminUsername: getenv("HALALAN_ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("HALALAN_ADMIN_PASSWORD"),
		AdminFullName: getenv("HALALAN_ADMIN_FULLNAME", "Election Administrator"),
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("HALALAN_TOKEN_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
