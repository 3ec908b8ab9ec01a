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
// built-in defaults, applies HAWKO_* environment variable overrides, and
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

// LoadDefaults returns the built-in defaults with HAWKO_* environment
// overrides applied, for running without a config file.
func LoadDefaults() *Config {
	cfg := Defaults()
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)
	return &cfg
}

// applyEnvOverrides reads well-known HAWKO_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "HAWKO_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.DataHost, "HAWKO_POLYMARKET_DATA_HOST")
	setStr(&cfg.Polymarket.PnLHost, "HAWKO_POLYMARKET_PNL_HOST")

	// ── Kalshi ──
	setStr(&cfg.Kalshi.BaseURL, "HAWKO_KALSHI_BASE_URL")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "HAWKO_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "HAWKO_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "HAWKO_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "HAWKO_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "HAWKO_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "HAWKO_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "HAWKO_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "HAWKO_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "HAWKO_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "HAWKO_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "HAWKO_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "HAWKO_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "HAWKO_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "HAWKO_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "HAWKO_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "HAWKO_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "HAWKO_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "HAWKO_S3_REGION")
	setStr(&cfg.S3.Bucket, "HAWKO_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "HAWKO_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "HAWKO_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "HAWKO_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "HAWKO_S3_FORCE_PATH_STYLE")

	// ── Scanner ──
	setDuration(&cfg.Scanner.Interval, "HAWKO_SCANNER_INTERVAL")
	setDuration(&cfg.Scanner.ScanTimeout, "HAWKO_SCANNER_SCAN_TIMEOUT")
	setInt(&cfg.Scanner.FetchLimit, "HAWKO_SCANNER_FETCH_LIMIT")
	setFloat64(&cfg.Scanner.PriceTolerance, "HAWKO_SCANNER_PRICE_TOLERANCE")
	setFloat64(&cfg.Scanner.FeeAllowance, "HAWKO_SCANNER_FEE_ALLOWANCE")
	setFloat64(&cfg.Scanner.MinStrictSpread, "HAWKO_SCANNER_MIN_STRICT_SPREAD")
	setInt(&cfg.Scanner.EndDateWindowHours, "HAWKO_SCANNER_END_DATE_WINDOW_HOURS")
	setFloat64(&cfg.Scanner.LooseThreshold, "HAWKO_SCANNER_LOOSE_THRESHOLD")
	setFloat64(&cfg.Scanner.StrictThreshold, "HAWKO_SCANNER_STRICT_THRESHOLD")
	setStr(&cfg.Scanner.Mode, "HAWKO_SCANNER_MODE")

	// ── Whale ──
	setFloat64(&cfg.Whale.MinAmountUSD, "HAWKO_WHALE_MIN_AMOUNT_USD")
	setInt(&cfg.Whale.MaxAlerts, "HAWKO_WHALE_MAX_ALERTS")
	setInt(&cfg.Whale.RetentionDays, "HAWKO_WHALE_RETENTION_DAYS")
	setDuration(&cfg.Whale.PollInterval, "HAWKO_WHALE_POLL_INTERVAL")

	// ── Cache ──
	setDuration(&cfg.Cache.MarketsTTL, "HAWKO_CACHE_MARKETS_TTL")
	setDuration(&cfg.Cache.LeaderboardTTL, "HAWKO_CACHE_LEADERBOARD_TTL")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "HAWKO_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "HAWKO_ARCHIVE_RETENTION_DAYS")
	setStr(&cfg.Archive.Schedule, "HAWKO_ARCHIVE_SCHEDULE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "HAWKO_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "HAWKO_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "HAWKO_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "HAWKO_NOTIFY_EVENTS")
	setFloat64(&cfg.Notify.MinSpread, "HAWKO_NOTIFY_MIN_SPREAD")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "HAWKO_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "HAWKO_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "HAWKO_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimit, "HAWKO_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "HAWKO_SERVER_RATE_WINDOW")

	// ── Top-level ──
	setStr(&cfg.Mode, "HAWKO_MODE")
	setStr(&cfg.LogLevel, "HAWKO_LOG_LEVEL")
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
