// Package config loads notegraph's YAML configuration. Everything has a
// sensible default; a missing config file is not an error.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file overrides it. The
// database lives under the user config directory, next to where a desktop
// client would keep it.
func Default() Config {
	dbPath := "notegraph.db"
	if dir, err := os.UserConfigDir(); err == nil {
		dbPath = filepath.Join(dir, "notegraph", "notegraph.db")
	}
	return Config{
		DBPath:   dbPath,
		LogLevel: "info",
	}
}

// DefaultPath returns the expected config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notegraph.yaml"
	}
	return filepath.Join(dir, "notegraph", "config.yaml")
}

// Load reads the config file at path, layered over Default. A missing file
// yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = Default().DBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info for
// unknown values.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
