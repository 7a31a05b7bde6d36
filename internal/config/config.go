// Package config loads server configuration from the environment.
// Every knob has a sane default except the secrets, which stay empty and
// disable the features that need them (the server still starts so the
// public read API keeps working).
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port   int
	DBPath string

	LogLevel string // "debug" | "info" | "warn" | "error"

	JWTSecret          string // empty = auth disabled
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	SeedAdminsFile string // path to a YAML file listing admin external ids; empty = no seeding

	RateLimitRPS   float64 // mutation requests per second per client IP
	RateLimitBurst int
}

// Load reads configuration from environment variables, applying defaults.
// Returns an error for values that are present but unparseable.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               8080,
		DBPath:             getenv("DB_PATH", "data/recshelf.db"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		SeedAdminsFile:     os.Getenv("SEED_ADMINS_FILE"),
		RateLimitRPS:       5,
		RateLimitBurst:     10,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.RateLimitRPS = rps
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		cfg.RateLimitBurst = burst
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
