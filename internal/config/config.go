// Package config defines the top-level configuration for hawko and provides
// validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by HAWKO_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Scanner    ScannerConfig    `toml:"scanner"`
	Whale      WhaleConfig      `toml:"whale"`
	Cache      CacheConfig      `toml:"cache"`
	Archive    ArchiveConfig    `toml:"archive"`
	Notify     NotifyConfig     `toml:"notify"`
	Server     ServerConfig     `toml:"server"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Polymarket API endpoints.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	DataHost  string `toml:"data_host"`
	PnLHost   string `toml:"pnl_host"`
}

// KalshiConfig holds the Kalshi public API endpoint.
type KalshiConfig struct {
	BaseURL string `toml:"base_url"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ScannerConfig holds cross-platform scan parameters: cadence, fetch sizing,
// and the matching/spread thresholds.
type ScannerConfig struct {
	Interval           duration `toml:"interval"`
	ScanTimeout        duration `toml:"scan_timeout"`
	FetchLimit         int      `toml:"fetch_limit"`
	PriceTolerance     float64  `toml:"price_tolerance"`
	FeeAllowance       float64  `toml:"fee_allowance"`
	MinStrictSpread    float64  `toml:"min_strict_spread"`
	EndDateWindowHours int      `toml:"end_date_window_hours"`
	LooseThreshold     float64  `toml:"loose_threshold"`
	StrictThreshold    float64  `toml:"strict_threshold"`
	// Mode is the confidence mode the background scan loop persists and
	// broadcasts: "strict" or "loose". API callers pick their own mode
	// per request.
	Mode string `toml:"mode"`
}

// WhaleConfig holds whale trade tracking parameters.
type WhaleConfig struct {
	MinAmountUSD  float64  `toml:"min_amount_usd"`
	MaxAlerts     int      `toml:"max_alerts"`
	RetentionDays int      `toml:"retention_days"`
	PollInterval  duration `toml:"poll_interval"`
}

// CacheConfig holds per-feed cache TTLs.
type CacheConfig struct {
	MarketsTTL     duration `toml:"markets_ttl"`
	LeaderboardTTL duration `toml:"leaderboard_ttl"`
}

// ArchiveConfig holds JSONL archival parameters for S3.
type ArchiveConfig struct {
	Enabled       bool   `toml:"enabled"`
	RetentionDays int    `toml:"retention_days"`
	Schedule      string `toml:"schedule"`
}

// NotifyConfig holds operator notification channels. All channels are
// optional; leaving a channel's settings empty disables it.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
	// MinSpread is the minimum top spread (percent) a scan needs before an
	// opportunity notification is sent.
	MinSpread float64 `toml:"min_spread"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	RateLimit   int      `toml:"rate_limit"`
	RateWindow  duration `toml:"rate_window"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			DataHost:  "https://data-api.polymarket.com",
			PnLHost:   "https://user-pnl-api.polymarket.com",
		},
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Postgres: PostgresConfig{
			DSN:           "",
			Host:          "localhost",
			Port:          5432,
			Database:      "hawko",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "hawko-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Scanner: ScannerConfig{
			Interval:           duration{5 * time.Minute},
			ScanTimeout:        duration{30 * time.Second},
			FetchLimit:         100,
			PriceTolerance:     0.02,
			FeeAllowance:       0.02,
			MinStrictSpread:    0.5,
			EndDateWindowHours: 48,
			LooseThreshold:     0.40,
			StrictThreshold:    0.60,
			Mode:               "strict",
		},
		Whale: WhaleConfig{
			MinAmountUSD:  10_000,
			MaxAlerts:     1000,
			RetentionDays: 7,
			PollInterval:  duration{30 * time.Second},
		},
		Cache: CacheConfig{
			MarketsTTL:     duration{time.Minute},
			LeaderboardTTL: duration{5 * time.Minute},
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			RetentionDays: 30,
			Schedule:      "0 3 * * *",
		},
		Notify: NotifyConfig{
			Events:    []string{"scan"},
			MinSpread: 1.0,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8080,
			CORSOrigins: []string{"*"},
			RateLimit:   120,
			RateWindow:  duration{time.Minute},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"serve": true,
	"scan":  true,
	"full":  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validScanModes = map[string]bool{
	"strict": true,
	"loose":  true,
}

// Validate checks the configuration for missing or inconsistent values and
// returns an error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, scan, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket endpoints
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.DataHost == "" {
		errs = append(errs, "polymarket: data_host must not be empty")
	}
	if c.Polymarket.PnLHost == "" {
		errs = append(errs, "polymarket: pnl_host must not be empty")
	}

	// Kalshi endpoint
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}

	// Postgres
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}

	// Scanner
	if c.Scanner.Interval.Duration <= 0 {
		errs = append(errs, "scanner: interval must be positive")
	}
	if c.Scanner.ScanTimeout.Duration <= 0 {
		errs = append(errs, "scanner: scan_timeout must be positive")
	}
	if c.Scanner.FetchLimit < 1 {
		errs = append(errs, "scanner: fetch_limit must be >= 1")
	}
	if c.Scanner.PriceTolerance < 0 || c.Scanner.PriceTolerance > 0.5 {
		errs = append(errs, fmt.Sprintf("scanner: price_tolerance must be in [0, 0.5], got %v", c.Scanner.PriceTolerance))
	}
	if c.Scanner.FeeAllowance < 0 || c.Scanner.FeeAllowance >= 1 {
		errs = append(errs, fmt.Sprintf("scanner: fee_allowance must be in [0, 1), got %v", c.Scanner.FeeAllowance))
	}
	if c.Scanner.LooseThreshold <= 0 || c.Scanner.LooseThreshold > 1 {
		errs = append(errs, fmt.Sprintf("scanner: loose_threshold must be in (0, 1], got %v", c.Scanner.LooseThreshold))
	}
	if c.Scanner.StrictThreshold < c.Scanner.LooseThreshold {
		errs = append(errs, "scanner: strict_threshold must be >= loose_threshold")
	}
	if c.Scanner.EndDateWindowHours < 1 {
		errs = append(errs, "scanner: end_date_window_hours must be >= 1")
	}
	if !validScanModes[strings.ToLower(c.Scanner.Mode)] {
		errs = append(errs, fmt.Sprintf("scanner: unknown mode %q (valid: strict, loose)", c.Scanner.Mode))
	}

	// Whale
	if c.Whale.MinAmountUSD < 0 {
		errs = append(errs, "whale: min_amount_usd must be >= 0")
	}
	if c.Whale.MaxAlerts < 1 {
		errs = append(errs, "whale: max_alerts must be >= 1")
	}
	if c.Whale.RetentionDays < 1 {
		errs = append(errs, "whale: retention_days must be >= 1")
	}
	if c.Whale.PollInterval.Duration <= 0 {
		errs = append(errs, "whale: poll_interval must be positive")
	}

	// Cache
	if c.Cache.MarketsTTL.Duration <= 0 {
		errs = append(errs, "cache: markets_ttl must be positive")
	}
	if c.Cache.LeaderboardTTL.Duration <= 0 {
		errs = append(errs, "cache: leaderboard_ttl must be positive")
	}

	// Archive
	if c.Archive.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "archive: s3.bucket must not be empty when archival is enabled")
		}
		if c.Archive.RetentionDays < 1 {
			errs = append(errs, "archive: retention_days must be >= 1")
		}
		if strings.TrimSpace(c.Archive.Schedule) == "" {
			errs = append(errs, "archive: schedule must not be empty when archival is enabled")
		}
	}

	// Notify
	if c.Notify.MinSpread < 0 {
		errs = append(errs, "notify: min_spread must be >= 0")
	}
	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id must be set when telegram_token is set")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimit < 1 {
			errs = append(errs, "server: rate_limit must be >= 1")
		}
		if c.Server.RateWindow.Duration <= 0 {
			errs = append(errs, "server: rate_window must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// PostgresDSN returns the connection string for pgx: the explicit DSN when
// set, otherwise one assembled from the discrete fields.
func (c *Config) PostgresDSN() string {
	if strings.TrimSpace(c.Postgres.DSN) != "" {
		return c.Postgres.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User, c.Postgres.Password,
		c.Postgres.Host, c.Postgres.Port,
		c.Postgres.Database, c.Postgres.SSLMode)
}
