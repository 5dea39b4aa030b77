package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Instagram.Enabled)
	assert.Equal(t, "instagram120.p.rapidapi.com", cfg.Instagram.Host)
	assert.Equal(t, "tiktok-api23.p.rapidapi.com", cfg.TikTok.Host)
	assert.Equal(t, "twitter-api45.p.rapidapi.com", cfg.Twitter.Host)
	assert.Empty(t, cfg.YouTube.Host, "youtube uses the Data API directly")

	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestPlatformLookup(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, cfg.TikTok, cfg.Platform("tiktok"))
	assert.Equal(t, PlatformConfig{}, cfg.Platform("myspace"))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOCIALPULSE_DATABASE_DSN", "postgres://localhost/pulse")
	t.Setenv("SOCIALPULSE_LOG_LEVEL", "debug")
	t.Setenv("SOCIALPULSE_HTTP_TIMEOUT", "45s")
	t.Setenv("SOCIALPULSE_MAX_RETRIES", "5")
	t.Setenv("TIKTOK_API_HOST", "tiktok-alt.p.rapidapi.com")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "postgres://localhost/pulse", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 45*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "tiktok-alt.p.rapidapi.com", cfg.TikTok.Host)
	assert.Equal(t, "instagram120.p.rapidapi.com", cfg.Instagram.Host, "unset vars leave defaults alone")
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SOCIALPULSE_HTTP_TIMEOUT", "soon")
	t.Setenv("SOCIALPULSE_MAX_RETRIES", "-2")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  dsn: postgres://db.internal/socialpulse
logging:
  level: warn
twitter:
  enabled: false
retry:
  max_attempts: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "postgres://db.internal/socialpulse", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Twitter.Enabled)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.Instagram.Enabled, "sections absent from the file keep defaults")
}

func TestLoadFromFileMissingPath(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no platforms enabled",
			mutate:  func(c *Config) { c.Instagram.Enabled = false; c.TikTok.Enabled = false; c.YouTube.Enabled = false; c.Twitter.Enabled = false },
			wantErr: "no platforms enabled",
		},
		{
			name:    "zero rate on enabled platform",
			mutate:  func(c *Config) { c.TikTok.RequestsPerMinute = 0 },
			wantErr: "requests per minute",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: "http timeout",
		},
		{
			name:    "zero base delay",
			mutate:  func(c *Config) { c.Retry.BaseDelay = 0 },
			wantErr: "base delay",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}
