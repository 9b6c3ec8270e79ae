package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval())
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.Timeout())
	}
	want := filepath.Join(home, ".local/state/pawndesk/pawndesk.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("MetricsAddr = %q, want empty", cfg.MetricsAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:9000/dashboard  "
poll_seconds = 5
request_timeout = 3
log_file = "  ~/logs/desk.log  "
log_level = " DEBUG "
metrics_addr = "127.0.0.1:9464"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9000/dashboard" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PollSeconds != 5 || cfg.RequestTimeout != 3 {
		t.Fatalf("PollSeconds/RequestTimeout = %d/%d, want 5/3", cfg.PollSeconds, cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("MetricsAddr = %q", cfg.MetricsAddr)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAWNDESK_API_URL", "http://override:8000/dashboard")
	t.Setenv("PAWNDESK_POLL_SECONDS", "12")
	t.Setenv("PAWNDESK_LOG_LEVEL", "warn")
	t.Setenv("PAWNDESK_METRICS_ADDR", ":9100")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "http://file:8000/dashboard"
poll_seconds = 60
request_timeout = 4
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://override:8000/dashboard" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.PollSeconds != 12 {
		t.Fatalf("PollSeconds = %d, want 12", cfg.PollSeconds)
	}
	if cfg.RequestTimeout != 4 {
		t.Fatalf("RequestTimeout = %d, want file value 4", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "warn" || cfg.MetricsAddr != ":9100" {
		t.Fatalf("LogLevel/MetricsAddr = %q/%q", cfg.LogLevel, cfg.MetricsAddr)
	}
}

func TestLoad_BadEnvironmentValueFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAWNDESK_POLL_SECONDS", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatalf("Load returned nil error, want environment parse error")
	}
	if !strings.Contains(err.Error(), "parse environment") {
		t.Fatalf("Load error = %q, want it to mention parse environment", err.Error())
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative poll", mutate: func(c *Config) { c.PollSeconds = -1 }, wantErr: "poll_seconds"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -5 }, wantErr: "request_timeout"},
		{name: "bad url", mutate: func(c *Config) { c.APIURL = "::bad" }, wantErr: "api_url"},
		{name: "bad scheme", mutate: func(c *Config) { c.APIURL = "ftp://host/dashboard" }, wantErr: "unsupported scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
