package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config carries the remote endpoints and the reconciliation timings. Values
// come from defaults, then the yaml config file, then VEXCHAT_* environment
// variables, in that order.
type Config struct {
	HistoryBaseURL string `yaml:"history_base_url" env:"VEXCHAT_HISTORY_URL"`
	AgentBaseURL   string `yaml:"agent_base_url" env:"VEXCHAT_AGENT_URL"`

	RequestTimeoutSec int    `yaml:"request_timeout_seconds" env:"VEXCHAT_REQUEST_TIMEOUT_SECONDS"`
	RefreshDelayMs    int    `yaml:"refresh_delay_ms" env:"VEXCHAT_REFRESH_DELAY_MS"`
	RetryDelayMs      int    `yaml:"retry_delay_ms" env:"VEXCHAT_RETRY_DELAY_MS"`
	Theme             string `yaml:"theme" env:"VEXCHAT_THEME"`
}

func DefaultConfig() Config {
	return Config{
		HistoryBaseURL:    "http://localhost:8000",
		AgentBaseURL:      "http://localhost:8080",
		RequestTimeoutSec: 10,
		RefreshDelayMs:    1200,
		RetryDelayMs:      2500,
		Theme:             "porcelain",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		case errors.Is(err, os.ErrNotExist):
			// No file is fine; defaults plus env carry it.
		default:
			return cfg, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 10
	}
	if cfg.RefreshDelayMs <= 0 {
		cfg.RefreshDelayMs = 1200
	}
	if cfg.RetryDelayMs <= 0 {
		cfg.RetryDelayMs = 2500
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "vexchat", "config.yml")
}

func DefaultLogPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vexchat", "vexchat.log")
	}
	return filepath.Join(base, "vexchat", "vexchat.log")
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c Config) RefreshDelay() time.Duration {
	return time.Duration(c.RefreshDelayMs) * time.Millisecond
}

func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
