package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != defaultPort || cfg.Cache.TTL != defaultCacheTTL || cfg.Logging.Format != defaultLoggingFormat {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.Addr != "" {
		t.Fatalf("cache should be disabled by default, got %q", cfg.Cache.Addr)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lottrace.toml")
	contents := `
[http]
port = 9090
read_timeout = "3s"

[graph]
uri = "bolt://graph:7687"

[cache]
addr = "redis:6379"
ttl = "1m"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9191 {
		t.Errorf("env should override file port, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("expected read timeout from file, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout, got %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Graph.URI != "bolt://graph:7687" || cfg.Cache.Addr != "redis:6379" || cfg.Cache.TTL != time.Minute {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SERVER_PORT", "70000"},
		{"SERVER_PORT", "http"},
		{"SERVER_READ_TIMEOUT", "soon"},
		{"CACHE_TTL", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
