// Package config loads the handoff configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/handoff/internal/handoff/latch"
	"github.com/kolkov/handoff/internal/handoff/protocol"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Version is the configuration schema version written by SaveConfig.
const Version = "v1.0.0"

// DefaultPollInterval is how often a waiting line is printed while a
// worker polls: on the first poll and every N-th after.
const DefaultPollInterval = 1000000

var (
	// ErrInvalidVersion is returned when version is not a semantic version.
	ErrInvalidVersion = errors.New("config: invalid version")

	// ErrUnsupportedVersion is returned for a schema major other than v1.
	ErrUnsupportedVersion = errors.New("config: unsupported version")

	// ErrInvalidWaitMode is returned when wait is neither spin nor signal.
	ErrInvalidWaitMode = errors.New("config: invalid wait mode")
)

// Config is the handoff configuration.
type Config struct {
	Version     string            `yaml:"version"`
	Wait        string            `yaml:"wait"`
	Audit       bool              `yaml:"audit"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Producer    ProducerConfig    `yaml:"producer"`
	Log         LogConfig         `yaml:"log"`
}

// DiagnosticsConfig controls the waiting lines printed while polling.
type DiagnosticsConfig struct {
	PollInterval uint64 `yaml:"poll_interval"`
}

// ProducerConfig holds the payload the producer writes.
type ProducerConfig struct {
	Text   string  `yaml:"text"`
	Count  int     `yaml:"count"`
	Amount float64 `yaml:"amount"`
}

// Payload returns the producer constants as a record payload.
func (p ProducerConfig) Payload() record.Payload {
	return record.Payload{Text: p.Text, Count: p.Count, Amount: p.Amount}
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfigPath returns the default config path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./handoff.yaml"
	}
	return filepath.Join(home, ".config", "handoff", "config.yaml")
}

// NewDefaultConfig returns the default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Version: Version,
		Wait:    string(latch.ModeSignal),
		Diagnostics: DiagnosticsConfig{
			PollInterval: DefaultPollInterval,
		},
		Producer: ProducerConfig{
			Text:   protocol.DefaultUpdate.Text,
			Count:  protocol.DefaultUpdate.Count,
			Amount: protocol.DefaultUpdate.Amount,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := NewDefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the schema version and the wait mode.
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, c.Version)
	}
	if major := semver.Major(c.Version); major != semver.Major(Version) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, c.Version, semver.Major(Version))
	}
	if _, err := latch.ParseMode(c.Wait); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidWaitMode, c.Wait)
	}
	return nil
}

// WaitMode returns the configured wait mode. It assumes Validate passed.
func (c *Config) WaitMode() latch.Mode {
	m, err := latch.ParseMode(c.Wait)
	if err != nil {
		return latch.ModeSignal
	}
	return m
}
