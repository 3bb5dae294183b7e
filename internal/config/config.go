// Package config loads the application configuration from a YAML file,
// with environment variables overriding the secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int    `yaml:"port"`
		MetricsPort int    `yaml:"metrics_port"`
		UploadDir   string `yaml:"upload_dir"`
	} `yaml:"server"`

	Database struct {
		Dialect string `yaml:"dialect"` // "sqlite3" or "postgres"
		DSN     string `yaml:"dsn"`
	} `yaml:"database"`

	Auth struct {
		Secret      string        `yaml:"secret"`
		TokenExpiry time.Duration `yaml:"token_expiry"`
	} `yaml:"auth"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Default returns a configuration suitable for local development
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Server.UploadDir = "uploads"
	cfg.Database.Dialect = "sqlite3"
	cfg.Database.DSN = "campstock.db"
	cfg.Auth.Secret = "dev-secret-change-me"
	cfg.Auth.TokenExpiry = 12 * time.Hour
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

// Load reads configuration from a YAML file. A missing file returns the
// defaults so the server can start without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets environment variables override file values for the
// settings that differ per deployment
func applyEnv(cfg *Config) {
	if v := os.Getenv("CAMPSTOCK_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("CAMPSTOCK_DB_DIALECT"); v != "" {
		cfg.Database.Dialect = v
	}
	if v := os.Getenv("CAMPSTOCK_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}
