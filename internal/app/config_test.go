package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryBaseURL != "http://localhost:8000" {
		t.Fatalf("history url: got %q", cfg.HistoryBaseURL)
	}
	if cfg.AgentBaseURL != "http://localhost:8080" {
		t.Fatalf("agent url: got %q", cfg.AgentBaseURL)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("timeout: got %v", cfg.RequestTimeout())
	}
	if cfg.RefreshDelay() != 1200*time.Millisecond || cfg.RetryDelay() != 2500*time.Millisecond {
		t.Fatalf("delays: %v / %v", cfg.RefreshDelay(), cfg.RetryDelay())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "history_base_url: https://history.example.com\nrefresh_delay_ms: 500\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryBaseURL != "https://history.example.com" {
		t.Fatalf("history url: got %q", cfg.HistoryBaseURL)
	}
	if cfg.RefreshDelay() != 500*time.Millisecond {
		t.Fatalf("refresh delay: got %v", cfg.RefreshDelay())
	}
	// Untouched fields keep defaults.
	if cfg.AgentBaseURL != "http://localhost:8080" {
		t.Fatalf("agent url: got %q", cfg.AgentBaseURL)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("agent_base_url: https://file.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VEXCHAT_AGENT_URL", "https://env.example.com")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AgentBaseURL != "https://env.example.com" {
		t.Fatalf("agent url: got %q", cfg.AgentBaseURL)
	}
}

func TestLoadConfigClampsNonPositiveTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("refresh_delay_ms: -1\nrequest_timeout_seconds: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshDelayMs <= 0 || cfg.RequestTimeoutSec <= 0 {
		t.Fatalf("timings not clamped: %+v", cfg)
	}
}
