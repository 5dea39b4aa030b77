package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the collection engine.
type Config struct {
	// Per-platform API settings
	Instagram PlatformConfig `yaml:"instagram" json:"instagram"`
	TikTok    PlatformConfig `yaml:"tiktok" json:"tiktok"`
	YouTube   PlatformConfig `yaml:"youtube" json:"youtube"`
	Twitter   PlatformConfig `yaml:"twitter" json:"twitter"`

	// HTTP client behavior
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Retry policy for transient and rate-limit failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Persisted-state backend
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PlatformConfig holds one platform's API endpoint and pacing settings.
// The API key itself is never stored here; keys are resolved through the
// credential stores at call time.
type PlatformConfig struct {
	Enabled           bool   `yaml:"enabled" json:"enabled"`
	Host              string `yaml:"host" json:"host"`
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// RetryConfig holds the bounded backoff policy.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
}

// DatabaseConfig holds the persisted-state connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" json:"dsn"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with sensible defaults. RapidAPI hosts match
// the upstream providers; YouTube talks to the Data API directly.
func DefaultConfig() *Config {
	return &Config{
		Instagram: PlatformConfig{
			Enabled:           true,
			Host:              "instagram120.p.rapidapi.com",
			RequestsPerMinute: 30,
		},
		TikTok: PlatformConfig{
			Enabled:           true,
			Host:              "tiktok-api23.p.rapidapi.com",
			RequestsPerMinute: 30,
		},
		YouTube: PlatformConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
		},
		Twitter: PlatformConfig{
			Enabled:           true,
			Host:              "twitter-api45.p.rapidapi.com",
			RequestsPerMinute: 30,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Platform returns the config section for the named platform.
func (c *Config) Platform(name string) PlatformConfig {
	switch name {
	case "instagram":
		return c.Instagram
	case "tiktok":
		return c.TikTok
	case "youtube":
		return c.YouTube
	case "twitter":
		return c.Twitter
	default:
		return PlatformConfig{}
	}
}

// LoadFromEnv overrides configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if dsn := os.Getenv("SOCIALPULSE_DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	} else if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}

	if logLevel := os.Getenv("SOCIALPULSE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if timeout := os.Getenv("SOCIALPULSE_HTTP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}

	if attempts := os.Getenv("SOCIALPULSE_MAX_RETRIES"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil && n > 0 {
			c.Retry.MaxAttempts = n
		}
	}

	// RapidAPI host overrides, one per platform
	hostOverride := map[string]*PlatformConfig{
		"INSTAGRAM_API_HOST": &c.Instagram,
		"TIKTOK_API_HOST":    &c.TikTok,
		"TWITTER_API_HOST":   &c.Twitter,
	}
	for env, pc := range hostOverride {
		if host := os.Getenv(env); host != "" {
			pc.Host = host
		}
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the standard locations and is not an error when nothing is found.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".socialpulse.yaml",
		".socialpulse.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "socialpulse", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "socialpulse", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".socialpulse.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	anyEnabled := false
	for _, pc := range []PlatformConfig{c.Instagram, c.TikTok, c.YouTube, c.Twitter} {
		if pc.Enabled {
			anyEnabled = true
			if pc.RequestsPerMinute <= 0 {
				errs = append(errs, errors.New("requests per minute must be positive"))
			}
		}
	}
	if !anyEnabled {
		errs = append(errs, errors.New("no platforms enabled"))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry max attempts must be positive"))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, errors.New("retry base delay must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence:
// environment variables > .env file > config file > defaults.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".socialpulse.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
