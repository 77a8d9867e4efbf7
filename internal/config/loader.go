package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MOONSHOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MOONSHOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "MOONSHOT_POLYMARKET_GAMMA_HOST")
	setInt(&cfg.Polymarket.FetchLimit, "MOONSHOT_POLYMARKET_FETCH_LIMIT")

	// ── Moonshot ──
	setFloat64(&cfg.Moonshot.StartingCapital, "MOONSHOT_STARTING_CAPITAL")
	setFloat64(&cfg.Moonshot.Target, "MOONSHOT_TARGET")
	setFloat64(&cfg.Moonshot.MaxPrice, "MOONSHOT_MAX_PRICE")
	setFloat64(&cfg.Moonshot.MinVolume, "MOONSHOT_MIN_VOLUME")
	setFloat64(&cfg.Moonshot.MinDays, "MOONSHOT_MIN_DAYS")
	setInt(&cfg.Moonshot.MaxResults, "MOONSHOT_MAX_RESULTS")
	setInt(&cfg.Moonshot.MaxStages, "MOONSHOT_MAX_STAGES")
	setInt(&cfg.Moonshot.MaxPositions, "MOONSHOT_MAX_POSITIONS")
	setFloat64(&cfg.Moonshot.EdgeAlert, "MOONSHOT_EDGE_ALERT")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "MOONSHOT_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "MOONSHOT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "MOONSHOT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "MOONSHOT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "MOONSHOT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "MOONSHOT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "MOONSHOT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "MOONSHOT_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "MOONSHOT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "MOONSHOT_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "MOONSHOT_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "MOONSHOT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MOONSHOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MOONSHOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MOONSHOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MOONSHOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MOONSHOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MOONSHOT_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "MOONSHOT_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "MOONSHOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "MOONSHOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "MOONSHOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "MOONSHOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "MOONSHOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "MOONSHOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "MOONSHOT_S3_FORCE_PATH_STYLE")

	// ── Pipeline ──
	setDuration(&cfg.Pipeline.ScanInterval, "MOONSHOT_PIPELINE_SCAN_INTERVAL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "MOONSHOT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "MOONSHOT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "MOONSHOT_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "MOONSHOT_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "MOONSHOT_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "MOONSHOT_SERVER_RATE_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "MOONSHOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "MOONSHOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "MOONSHOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "MOONSHOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "MOONSHOT_MODE")
	setStr(&cfg.LogLevel, "MOONSHOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
