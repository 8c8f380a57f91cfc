package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bookwire/bookwire/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Server.Listen)
	}
	if cfg.Cache.Redis != "" {
		t.Errorf("Redis = %q, want empty (disabled)", cfg.Cache.Redis)
	}
	ttl, err := cfg.cacheTTL()
	if err != nil {
		t.Fatalf("cacheTTL error: %v", err)
	}
	if ttl != 5*time.Minute {
		t.Errorf("TTL = %v, want 5m", ttl)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookwire.toml")
	content := `
[server]
listen = ":9090"
database = ":memory:"

[cache]
redis = "localhost:6379"
ttl = "30s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Server.Listen)
	}
	if cfg.Server.Database != ":memory:" {
		t.Errorf("Database = %q, want :memory:", cfg.Server.Database)
	}
	if cfg.Cache.Redis != "localhost:6379" {
		t.Errorf("Redis = %q, want localhost:6379", cfg.Cache.Redis)
	}
	ttl, err := cfg.cacheTTL()
	if err != nil {
		t.Fatalf("cacheTTL error: %v", err)
	}
	if ttl != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", ttl)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", `[server` + "\n"},
		{"invalid ttl", "[cache]\nttl = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bookwire.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := loadConfig(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}
