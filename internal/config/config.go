package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a ledger directory.
const FileName = "ledger.yaml"

// Config represents the top-level ledger.yaml configuration. Fields tagged
// env can be overridden from the environment.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Chart    ChartConfig    `yaml:"chart"`
	Assets   AssetsConfig   `yaml:"assets"`
	Fund     FundConfig     `yaml:"fund"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path          string `yaml:"path" env:"LEDGER_DB_PATH"` // relative to the ledger directory
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" env:"LEDGER_BUSY_TIMEOUT_MS"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEDGER_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"LEDGER_LOG_FORMAT"` // console or json
}

// ChartConfig picks the chart of accounts created by init: a built-in
// template, or a YAML file when File is set.
type ChartConfig struct {
	Template string `yaml:"template"`
	File     string `yaml:"file,omitempty"`
}

// AssetsConfig optionally replaces the built-in asset list.
type AssetsConfig struct {
	File string `yaml:"file,omitempty"`
}

// FundConfig describes the fund created by init.
type FundConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// Load reads a ledger.yaml file from disk and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays LEDGER_* environment variables onto cfg. Unset
// variables leave the file values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:          "ledger.db",
			BusyTimeoutMS: 5000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Chart: ChartConfig{
			Template: "fund",
		},
		Fund: FundConfig{
			Name:     "main",
			Currency: "USD",
		},
	}
}

// DBPath resolves the database path against the ledger directory root.
func (c *Config) DBPath(root string) string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(root, c.Database.Path)
}

// BusyTimeout returns how long a writer waits for the database lock.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeoutMS) * time.Millisecond
}
