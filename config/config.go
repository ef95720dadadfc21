package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	App      AppConfig      `yaml:"app"`
	Digest   DigestConfig   `yaml:"digest"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds the bot credentials and polling settings.
type TelegramConfig struct {
	Token           string `yaml:"token"`
	DeveloperChatID int64  `yaml:"developer_chat_id"`
	PollTimeout     int    `yaml:"poll_timeout"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig holds Redis configuration. An empty Addr keeps conversation
// state in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// AppConfig holds settings shared by every module.
type AppConfig struct {
	Timezone        string        `yaml:"timezone"`
	ConversationTTL time.Duration `yaml:"conversation_ttl"`
}

// DigestConfig controls the end-of-day leaderboard digest.
type DigestConfig struct {
	Enabled bool `yaml:"enabled"`
	Hour    int  `yaml:"hour"`
}

// HTTPConfig holds the health and metrics listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	DefaultPollTimeout     = 60
	DefaultTimezone        = "Asia/Tehran"
	DefaultConversationTTL = 10 * time.Minute
	DefaultDigestHour      = 23
	DefaultHTTPAddr        = ":8080"
	DefaultLogLevel        = "info"
)

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A missing file falls back to the environment alone.
func LoadConfig(filename string) (*Config, error) {
	cfg, err := Load(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is LoadConfig without validation, for tools that only need part of
// the configuration.
func Load(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Telegram.Token, "BOT_TOKEN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.App.Timezone, "APP_TIMEZONE")
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Logging.Level, "LOG_LEVEL")

	if v := os.Getenv("DEVELOPER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid DEVELOPER_ID value: %w", err)
		}
		cfg.Telegram.DeveloperChatID = id
	}
	if v := os.Getenv("TELEGRAM_POLL_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_POLL_TIMEOUT value: %w", err)
		}
		cfg.Telegram.PollTimeout = n
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("CONVERSATION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CONVERSATION_TTL value: %w", err)
		}
		cfg.App.ConversationTTL = d
	}
	if v := os.Getenv("DIGEST_ENABLED"); v != "" {
		cfg.Digest.Enabled = v == "true"
	}
	if v := os.Getenv("DIGEST_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DIGEST_HOUR value: %w", err)
		}
		cfg.Digest.Hour = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = DefaultPollTimeout
	}
	if c.App.Timezone == "" {
		c.App.Timezone = DefaultTimezone
	}
	if c.App.ConversationTTL == 0 {
		c.App.ConversationTTL = DefaultConversationTTL
	}
	if c.Digest.Hour == 0 {
		c.Digest.Hour = DefaultDigestHour
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("BOT_TOKEN environment variable not set")
	}
	if c.Postgres.DSN == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	if c.Digest.Hour < 0 || c.Digest.Hour > 23 {
		return fmt.Errorf("digest hour %d out of range 0-23", c.Digest.Hour)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the reference time zone used for calendar dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps logging.level onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
