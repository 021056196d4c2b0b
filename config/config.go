// Package config loads matchview settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"matchview/models"
)

// Config holds all matchview settings
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	AWS      AWSConfig      `yaml:"aws"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Presence PresenceConfig `yaml:"presence"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"PORT"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type BackendConfig struct {
	URL               string        `yaml:"url" env:"BACKEND_URL"`
	Timeout           time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"BACKEND_RPS"`
	Burst             int           `yaml:"burst" env:"BACKEND_BURST"`
}

type AWSConfig struct {
	Region           string        `yaml:"region" env:"AWS_REGION"`
	S3Bucket         string        `yaml:"s3_bucket" env:"S3_BUCKET_NAME"`
	PreferencesTable string        `yaml:"preferences_table" env:"PREFERENCES_TABLE"`
	ImageURLTTL      time.Duration `yaml:"image_url_ttl" env:"IMAGE_URL_TTL"`
}

type AuthConfig struct {
	// JWTSecret is the HS256 key shared with the backend that issues tokens
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type SearchConfig struct {
	FetchLimit       int    `yaml:"fetch_limit" env:"SEARCH_FETCH_LIMIT"`
	BufferCap        int    `yaml:"buffer_cap" env:"SEARCH_BUFFER_CAP"`
	DefaultPageSize  int    `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE"`
	UnparsablePolicy string `yaml:"unparsable_policy" env:"UNPARSABLE_POLICY"`
}

type PresenceConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval" env:"PRESENCE_POLL_INTERVAL"`
	ServiceUsername string        `yaml:"service_username" env:"PRESENCE_SERVICE_USERNAME"`
	ServiceToken    string        `yaml:"service_token" env:"PRESENCE_SERVICE_TOKEN"`
}

// CacheConfig bounds per-viewer state: entries older than TTL are dropped on
// the next sweep and reloaded from the backend on demand.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: 15 * time.Second,
		},
		Backend: BackendConfig{
			URL:               "http://localhost:8000",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 50,
			Burst:             20,
		},
		AWS: AWSConfig{
			Region:           "us-east-1",
			PreferencesTable: models.PreferencesTable,
			ImageURLTTL:      5 * time.Minute,
		},
		Search: SearchConfig{
			FetchLimit:       100,
			BufferCap:        models.DefaultSearchBufferCap,
			DefaultPageSize:  models.DefaultPageSize,
			UnparsablePolicy: "drop",
		},
		Presence: PresenceConfig{
			PollInterval:    30 * time.Second,
			ServiceUsername: "matchview",
		},
		Cache: CacheConfig{
			TTL:           15 * time.Minute,
			SweepInterval: time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load applies defaults, then the YAML file at path if it exists, then the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.Backend.URL)
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if len(c.Server.AllowedOrigins) == 0 || slices.Contains(c.Server.AllowedOrigins, "*") {
		return errors.New("allowed origins must be listed explicitly when credentials are allowed")
	}
	if c.Cache.TTL <= 0 || c.Cache.SweepInterval <= 0 {
		return errors.New("cache ttl and sweep interval must be positive")
	}
	if c.Search.BufferCap <= 0 || c.Search.FetchLimit <= 0 {
		return errors.New("search buffer cap and fetch limit must be positive")
	}
	if c.Search.DefaultPageSize < 1 || c.Search.DefaultPageSize > 100 {
		return fmt.Errorf("default page size %d outside 1..100", c.Search.DefaultPageSize)
	}
	switch c.Search.UnparsablePolicy {
	case "drop", "keep":
	default:
		return fmt.Errorf("unparsable policy must be drop or keep, got %q", c.Search.UnparsablePolicy)
	}
	return nil
}
