package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.APITimeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WRITEBOT_API_URL", "https://api.example.com")
	t.Setenv("WRITEBOT_API_TIMEOUT", "90s")
	t.Setenv("WRITEBOT_DB", "/tmp/wb.db")

	cfg := FromEnv()
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 90*time.Second {
		t.Fatalf("timeout = %v", cfg.APITimeout)
	}
	if cfg.DBPath != "/tmp/wb.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
}

func TestFromEnv_TimeoutSeconds(t *testing.T) {
	t.Setenv("WRITEBOT_API_TIMEOUT", "45")
	cfg := FromEnv()
	if cfg.APITimeout != 45*time.Second {
		t.Fatalf("timeout = %v", cfg.APITimeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.APIBaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad URL")
	}

	cfg = DefaultConfig()
	cfg.APITimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
