package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "scan", cfg.Mode)
	assert.InDelta(t, 50, cfg.Moonshot.StartingCapital, 1e-9)
	assert.InDelta(t, 100_000, cfg.Moonshot.Target, 1e-9)
	assert.InDelta(t, 0.05, cfg.Moonshot.MaxPrice, 1e-9)
	assert.Equal(t, 15*time.Minute, cfg.Pipeline.ScanInterval.Duration)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.S3.Enabled)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.LogLevel = "loud"
	cfg.Moonshot.MaxPrice = 2
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown mode "turbo"`)
	assert.ErrorContains(t, err, `unknown log_level "loud"`)
	assert.ErrorContains(t, err, "max_price must be in (0, 1]")
	assert.ErrorContains(t, err, "server: port must be 1-65535")
}

func TestValidateModeRequirements(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "server"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "redis: must be enabled for mode server")

	cfg.Redis.Enabled = true
	require.NoError(t, cfg.Validate())

	cfg = Defaults()
	cfg.Mode = "watch"
	cfg.Pipeline.ScanInterval = duration{0}
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "scan_interval must be > 0")
}

func TestValidateRateLimitNeedsRedis(t *testing.T) {
	cfg := Defaults()
	cfg.Server.RateLimit = 100
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "rate_limit requires redis")

	cfg.Redis.Enabled = true
	require.NoError(t, cfg.Validate())
}

func TestValidateSkipsDisabledSections(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Host = ""
	cfg.Redis.Addr = ""
	cfg.S3.Bucket = ""
	require.NoError(t, cfg.Validate(), "disabled sections must not be validated")

	cfg.Postgres.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "postgres: host must not be empty")
}

func TestValidatePostgresDSNSkipsHostChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Enabled = true
	cfg.Postgres.DSN = "postgres://user:pass@db:5432/moonshot"
	cfg.Postgres.Host = ""
	cfg.Postgres.Port = 0
	require.NoError(t, cfg.Validate())
}

func TestDurationText(t *testing.T) {
	var d duration
	require.NoError(t, d.UnmarshalText([]byte("5m")))
	assert.Equal(t, 5*time.Minute, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", string(out))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Password = "pg-secret"
	cfg.Postgres.DSN = "postgres://user:pass@db/moonshot"
	cfg.Redis.Password = "redis-secret"
	cfg.S3.AccessKey = "AKIA123"
	cfg.S3.SecretKey = "s3-secret"
	cfg.Server.APIKey = "api-secret"
	cfg.Notify.TelegramToken = "tg-secret"
	cfg.Notify.DiscordWebhookURL = "https://discord.example/hook"

	red := RedactedConfig(&cfg)
	assert.NotContains(t, red.Postgres.Password, "pg-secret")
	assert.NotContains(t, red.Postgres.DSN, "pass")
	assert.NotContains(t, red.Redis.Password, "redis-secret")
	assert.NotContains(t, red.S3.SecretKey, "s3-secret")
	assert.NotContains(t, red.Server.APIKey, "api-secret")
	assert.NotContains(t, red.Notify.TelegramToken, "tg-secret")
	assert.NotContains(t, red.Notify.DiscordWebhookURL, "discord.example")

	// Originals stay intact.
	assert.Equal(t, "pg-secret", cfg.Postgres.Password)
	assert.Equal(t, "api-secret", cfg.Server.APIKey)
}
