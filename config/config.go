// Package config provides configuration loading and validation.
//
// Configuration is optional: a modular input runs with defaults when no file
// is given. The host controls the process environment, so every setting can
// also come from MODINPUT_* variables or a .env file beside the script.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the variable holding the config file path.
const EnvConfigPath = "MODINPUT_CONFIG"

// Config is the root configuration structure.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Splunkd    SplunkdConfig    `yaml:"splunkd"`
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	Watch bool   `yaml:"watch"` // Reload the level when the config file changes
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Node exporter textfile path; empty disables
}

// CheckpointConfig configures the checkpoint store in checkpoint_dir.
type CheckpointConfig struct {
	Disabled bool   `yaml:"disabled"`
	Filename string `yaml:"filename"`
}

// SplunkdConfig configures the client for the host's REST API.
type SplunkdConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	VerifyTLS bool          `yaml:"verify_tls"` // The management port is self-signed by default
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	MODINPUT_LOG_LEVEL           - Log level: debug, info, warn, error (default: info)
//	MODINPUT_LOG_WATCH           - Reload log level on config file change (default: false)
//	MODINPUT_METRICS_TEXTFILE    - Write metrics to this textfile at exit (default: off)
//	MODINPUT_CHECKPOINT_DISABLED - Disable the checkpoint store (default: false)
//	MODINPUT_CHECKPOINT_FILENAME - Checkpoint database name (default: checkpoints.db)
//	MODINPUT_SPLUNKD_TIMEOUT     - Host REST timeout (default: 30s)
//	MODINPUT_SPLUNKD_VERIFY_TLS  - Verify the host certificate (default: false)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise. An empty path is read from MODINPUT_CONFIG.
func LoadWithFallback(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables the host already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies MODINPUT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODINPUT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MODINPUT_LOG_WATCH"); v != "" {
		cfg.Logging.Watch = parseBool(v)
	}

	if v := os.Getenv("MODINPUT_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	if v := os.Getenv("MODINPUT_CHECKPOINT_DISABLED"); v != "" {
		cfg.Checkpoint.Disabled = parseBool(v)
	}
	if v := os.Getenv("MODINPUT_CHECKPOINT_FILENAME"); v != "" {
		cfg.Checkpoint.Filename = v
	}

	if v := os.Getenv("MODINPUT_SPLUNKD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Splunkd.Timeout = d
		}
	}
	if v := os.Getenv("MODINPUT_SPLUNKD_VERIFY_TLS"); v != "" {
		cfg.Splunkd.VerifyTLS = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if cfg.Checkpoint.Filename == "" {
		cfg.Checkpoint.Filename = "checkpoints.db"
	}

	if cfg.Splunkd.Timeout == 0 {
		cfg.Splunkd.Timeout = 30 * time.Second
	}
}

func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	if strings.ContainsAny(cfg.Checkpoint.Filename, `/\`) {
		return fmt.Errorf("checkpoint.filename must be a file name, got %q", cfg.Checkpoint.Filename)
	}

	if cfg.Splunkd.Timeout < 0 {
		return fmt.Errorf("splunkd.timeout must not be negative")
	}

	return nil
}
