package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console settings. Zero values are replaced by defaults
// in Load.
type Config struct {
	APIURL         string `toml:"api_url" env:"API_URL"`
	PollSeconds    int    `toml:"poll_seconds" env:"POLL_SECONDS"`
	RequestTimeout int    `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	LogFile        string `toml:"log_file" env:"LOG_FILE"`
	LogLevel       string `toml:"log_level" env:"LOG_LEVEL"`
	MetricsAddr    string `toml:"metrics_addr" env:"METRICS_ADDR"`
}

const (
	envPrefix = "PAWNDESK_"

	defaultConfigPath     = "~/.config/pawndesk/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8000/dashboard"
	defaultPollSeconds    = 30
	defaultRequestTimeout = 10
	defaultLogFile        = "~/.local/state/pawndesk/pawndesk.log"
	defaultLogLevel       = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PollSeconds:    defaultPollSeconds,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load reads the config file at path (or the default location), applies
// PAWNDESK_* environment overrides and fills in defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = defaultPollSeconds
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	c.LogFile = mustExpand(c.LogFile)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.PollSeconds < 0 {
		errs = append(errs, fmt.Errorf("poll_seconds must not be negative, got %d", c.PollSeconds))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request_timeout must not be negative, got %d", c.RequestTimeout))
	}
	if u, err := url.Parse(c.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	} else if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api_url: unsupported scheme %q", u.Scheme))
	}
	return errors.Join(errs...)
}

// PollInterval returns the auto-refresh period.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
