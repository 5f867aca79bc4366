// Package config loads runtime configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all backend and storage configuration.
type Config struct {
	// APIBaseURL is the onboarding backend base URL. When empty, the
	// app runs in offline mode with canned tutor replies.
	APIBaseURL string

	// APITimeout is the per-request timeout. Default: 60s, sized for
	// LLM-backed endpoints.
	APITimeout time.Duration

	// DBPath overrides the default database location when set.
	DBPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: "http://localhost:8000",
		APITimeout: 60 * time.Second,
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values. A .env file in the working directory is
// loaded first if present; real environment variables win over it.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if u := os.Getenv("WRITEBOT_API_URL"); u != "" {
		cfg.APIBaseURL = u
	}
	if t := os.Getenv("WRITEBOT_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.APITimeout = d
		} else if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			cfg.APITimeout = time.Duration(secs) * time.Second
		}
	}
	if p := os.Getenv("WRITEBOT_DB"); p != "" {
		cfg.DBPath = p
	}

	return cfg
}

// Validate checks that the configured values are usable.
func (c Config) Validate() error {
	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("WRITEBOT_API_URL is not a valid URL: %q", c.APIBaseURL)
		}
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %v", c.APITimeout)
	}
	return nil
}
