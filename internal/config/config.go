// Package config loads and saves the daywatch YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// DBPath is the SQLite database location. Defaults to
	// ~/.daywatch/daywatch.db.
	DBPath string `yaml:"db_path"`

	// SnoozeMinutes is how long a snoozed reminder waits before replay.
	SnoozeMinutes int `yaml:"snooze_minutes"`

	// TickIntervalSeconds is the elapsed-timer tick period.
	TickIntervalSeconds int `yaml:"tick_interval_seconds"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:              defaultDBPath(),
		SnoozeMinutes:       5,
		TickIntervalSeconds: 1,
		LogLevel:            "info",
	}
}

// Normalize fills in missing/zero values with defaults so partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath()
	}
	if c.SnoozeMinutes <= 0 {
		c.SnoozeMinutes = 5
	}
	if c.TickIntervalSeconds <= 0 {
		c.TickIntervalSeconds = 1
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}

// Load reads the configuration at path. If the file does not exist a
// default config is written there with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if saveErr := Save(path, cfg); saveErr != nil {
				return nil, fmt.Errorf("writing first-run config: %w", saveErr)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration as YAML with 0600 permissions, creating
// the parent directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DefaultPath returns the config location: $DAYWATCH_CONFIG if set, else
// ~/.daywatch/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("DAYWATCH_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".daywatch", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "daywatch.db"
	}
	return filepath.Join(home, ".daywatch", "daywatch.db")
}
