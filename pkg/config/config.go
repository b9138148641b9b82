// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Events  EventsConfig  `yaml:"events"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects and configures the storage backend. When
// DatabaseURL is set the server uses PostgreSQL; otherwise it runs on the
// in-memory store.
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenDuration   time.Duration `yaml:"token_duration"`
	RefreshDuration time.Duration `yaml:"refresh_duration"`
}

// UnmarshalYAML accepts durations in Go syntax ("15m", "168h").
func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenDuration   string `yaml:"token_duration"`
		RefreshDuration string `yaml:"refresh_duration"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.JWTSecret != "" {
		a.JWTSecret = raw.JWTSecret
	}
	if raw.TokenDuration != "" {
		d, err := time.ParseDuration(raw.TokenDuration)
		if err != nil {
			return fmt.Errorf("invalid auth.token_duration: %w", err)
		}
		a.TokenDuration = d
	}
	if raw.RefreshDuration != "" {
		d, err := time.ParseDuration(raw.RefreshDuration)
		if err != nil {
			return fmt.Errorf("invalid auth.refresh_duration: %w", err)
		}
		a.RefreshDuration = d
	}
	return nil
}

// EventsConfig configures the mutation event feed. An empty BindAddr
// disables the external broadcaster; the in-process hub always runs.
type EventsConfig struct {
	BindAddr string `yaml:"bind_addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Auth: AuthConfig{
			TokenDuration:   15 * time.Minute,
			RefreshDuration: 7 * 24 * time.Hour,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MATSLOGIC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("MATSLOGIC_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("MATSLOGIC_EVENTS_ADDR"); v != "" {
		c.Events.BindAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks for required fields and fills remaining defaults.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Auth.TokenDuration <= 0 {
		c.Auth.TokenDuration = 15 * time.Minute
	}
	if c.Auth.RefreshDuration <= 0 {
		c.Auth.RefreshDuration = 7 * 24 * time.Hour
	}
	return nil
}
