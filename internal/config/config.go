// Package config loads the application configuration file.
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

// Config is the contents of config.yaml.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Solver    SolverConfig    `yaml:"solver"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Mirror    MirrorConfig    `yaml:"mirror"`
}

type AnimationConfig struct {
	QuarterTurn time.Duration `yaml:"quarter_turn"`
	HalfTurn    time.Duration `yaml:"half_turn"`
}

type SolverConfig struct {
	Command  string        `yaml:"command"`
	Args     []string      `yaml:"args,omitempty"`
	MaxDepth int           `yaml:"max_depth"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ServerConfig struct {
	Addr string        `yaml:"addr"`
	Tick time.Duration `yaml:"tick"`
}

// MirrorConfig configures the smart cube mirror.
type MirrorConfig struct {
	ScanTimeout time.Duration `yaml:"scan_timeout"`
	Device      string        `yaml:"device,omitempty"` // UUID; empty picks the first cube found
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Animation: AnimationConfig{
			QuarterTurn: 700 * time.Millisecond,
			HalfTurn:    1200 * time.Millisecond,
		},
		Solver: SolverConfig{
			MaxDepth: 21,
			Timeout:  10 * time.Second,
		},
		Storage: StorageConfig{
			DBPath: "cubesolver.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			Tick: 16 * time.Millisecond,
		},
		Mirror: MirrorConfig{
			ScanTimeout: 10 * time.Second,
		},
	}
}

// DefaultDir returns the configuration directory, creating it if needed.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".cubesolver")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the puzzle cannot run with.
func (c Config) Validate() error {
	if c.Animation.QuarterTurn <= 0 || c.Animation.HalfTurn <= 0 {
		return fmt.Errorf("animation durations must be positive")
	}
	if c.Solver.MaxDepth <= 0 {
		return fmt.Errorf("solver max_depth must be positive, got %d", c.Solver.MaxDepth)
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("solver timeout must not be negative")
	}
	if c.Server.Tick <= 0 {
		return fmt.Errorf("server tick must be positive")
	}
	return nil
}
