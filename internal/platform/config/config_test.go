package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpt/internal/platform/config"
)

func TestNewUsesDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	cfg, err := config.New(home, "")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, "cpt.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Pacing.ReplyDelay != 500*time.Millisecond {
		t.Fatalf("unexpected reply delay %s", cfg.Pacing.ReplyDelay)
	}
}

func TestNewOverlaysYAML(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	body := `
source:
  endpoint: https://puzzles.test/api
  category: candidates-2024
storage:
  backend: file
pacing:
  reply_delay: 50ms
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(home, "")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Source.Endpoint != "https://puzzles.test/api" || cfg.Source.Category != "candidates-2024" {
		t.Fatalf("source not decoded: %+v", cfg.Source)
	}
	if cfg.Storage.Backend != config.BackendFile {
		t.Fatalf("expected file backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Pacing.ReplyDelay != 50*time.Millisecond {
		t.Fatalf("expected 50ms reply delay, got %s", cfg.Pacing.ReplyDelay)
	}
	if cfg.Pacing.SeedDelay != time.Second {
		t.Fatalf("unset values must keep defaults, got %s", cfg.Pacing.SeedDelay)
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	if _, err := config.New("", ""); err == nil {
		t.Fatalf("empty home should fail")
	}
	home := t.TempDir()
	path := filepath.Join(home, "bad.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: postgres\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(home, path); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
