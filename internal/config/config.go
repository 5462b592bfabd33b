package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all process configuration, populated from environment
// variables (with .env support for local development).
type Config struct {
	HTTP  HTTPConfig
	Auth  AuthConfig
	Rules RulesConfig
	Fetch FetchConfig
}

// HTTPConfig configures the HTTP and metrics listeners.
type HTTPConfig struct {
	// Addr is the address of the main HTTP server.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// MetricsEnabled controls the dedicated metrics listener.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// MetricsAddr is the address of the metrics server.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// AuthConfig configures the OAuth client and token persistence.
type AuthConfig struct {
	// CredentialsFile is the path to the Google OAuth web-client JSON.
	CredentialsFile string `env:"CREDENTIALS_PATH" envDefault:"credentials.json"`

	// TokenFile overrides the token storage location. When empty, the
	// token lives under the XDG data directory.
	TokenFile string `env:"TOKEN_PATH"`

	// RedirectURI overrides the redirect target from the credentials
	// file. When empty, the first configured redirect URI is used.
	RedirectURI string `env:"REDIRECT_URI"`
}

// RulesConfig configures classification rule loading.
type RulesConfig struct {
	// File is the path to the rules JSON file. The file is optional;
	// when absent every message classifies as Unassigned.
	File string `env:"RULES_PATH" envDefault:"rules.json"`
}

// FetchConfig configures message retrieval.
type FetchConfig struct {
	// DefaultLimit is the number of messages fetched when a request
	// does not specify one.
	DefaultLimit int `env:"FETCH_LIMIT" envDefault:"25"`

	// Concurrency bounds the number of simultaneous message
	// hydration calls per request.
	Concurrency int `env:"FETCH_CONCURRENCY" envDefault:"8"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; its absence is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "reason", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Fetch.DefaultLimit <= 0 {
		return fmt.Errorf("fetch limit must be positive, got %d", c.Fetch.DefaultLimit)
	}
	if c.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch concurrency must be positive, got %d", c.Fetch.Concurrency)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP address must not be empty")
	}
	return nil
}
