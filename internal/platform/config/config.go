package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	Home    string        `yaml:"-"`
	DBPath  string        `yaml:"-"`
	Source  SourceConfig  `yaml:"source"`
	Storage StorageConfig `yaml:"storage"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig points at the remote puzzle endpoint.
type SourceConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Category string        `yaml:"category"`
	Timeout  time.Duration `yaml:"timeout"`
	Offline  bool          `yaml:"offline"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite, file
}

// PacingConfig holds the visual delays used by the move sequencer.
type PacingConfig struct {
	SeedDelay   time.Duration `yaml:"seed_delay"`
	ReplyDelay  time.Duration `yaml:"reply_delay"`
	RevertDelay time.Duration `yaml:"revert_delay"`
	Animation   time.Duration `yaml:"animation"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

func Default(home string) Config {
	return Config{
		Home:   home,
		DBPath: filepath.Join(home, "cpt.db"),
		Source: SourceConfig{
			Category: "default",
			Timeout:  15 * time.Second,
		},
		Storage: StorageConfig{Backend: BackendSQLite},
		Pacing: PacingConfig{
			SeedDelay:   time.Second,
			ReplyDelay:  500 * time.Millisecond,
			RevertDelay: 500 * time.Millisecond,
			Animation:   300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(home, "cpt.log"),
		},
	}
}

// New builds the configuration for home, overlaying the yaml file at path
// (or <home>/config.yaml when path is empty) if it exists.
func New(home, path string) (Config, error) {
	if strings.TrimSpace(home) == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	cfg := Default(home)
	if path == "" {
		path = filepath.Join(home, "config.yaml")
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	if c.Pacing.SeedDelay < 0 || c.Pacing.ReplyDelay < 0 || c.Pacing.RevertDelay < 0 || c.Pacing.Animation < 0 {
		return fmt.Errorf("pacing delays must be non-negative")
	}
	return nil
}
