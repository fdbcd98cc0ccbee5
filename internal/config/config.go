package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Checker CheckerConfig
	Bot     BotConfig
	Chat    ChatConfig
	Site    SiteConfig
	Log     LogConfig
}

// DBConfig holds database configuration
type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Database string `envconfig:"DB_NAME" default:"nexiplay"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"require"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	// ConnectAttempts bounds the startup retries against a cold hosted database
	ConnectAttempts uint `envconfig:"DB_CONNECT_ATTEMPTS" default:"5"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       int    `envconfig:"SERVER_PORT" default:"8080"`
	CronSecret string `envconfig:"CRON_SECRET"`
	SiteURL    string `envconfig:"SITE_URL" default:"https://nexiplay.com"`
}

// CheckerConfig holds link health checker configuration
type CheckerConfig struct {
	Enabled      bool          `envconfig:"CHECKER_ENABLED" default:"false"`
	Interval     time.Duration `envconfig:"CHECKER_INTERVAL" default:"15m"`
	InitialDelay time.Duration `envconfig:"CHECKER_INITIAL_DELAY" default:"5s"`
	BatchSize    int           `envconfig:"CHECKER_BATCH_SIZE" default:"20"`
	ProbeTimeout time.Duration `envconfig:"CHECKER_PROBE_TIMEOUT" default:"5s"`
	UserAgent    string        `envconfig:"CHECKER_USER_AGENT" default:"NexiPlay-LinkChecker/1.0"`
	// RateLimit is the number of probes per second; 0 disables pacing
	RateLimit float64 `envconfig:"CHECKER_RATE_LIMIT" default:"0"`
}

// BotConfig holds Telegram bot configuration. The bot is optional.
type BotConfig struct {
	Token       string `envconfig:"BOT_TOKEN"`
	AdminChatID int64  `envconfig:"BOT_ADMIN_CHAT_ID" default:"0"`
}

// Enabled reports whether a Telegram token is configured
func (c *BotConfig) Enabled() bool {
	return c.Token != ""
}

// ChatConfig holds chatbot configuration
type ChatConfig struct {
	ResultLimit int    `envconfig:"CHAT_RESULT_LIMIT" default:"3"`
	FAQSeedFile string `envconfig:"CHAT_FAQ_SEED_FILE"`
}

// SiteConfig holds site settings cache configuration
type SiteConfig struct {
	SettingsTTL time.Duration `envconfig:"SITE_SETTINGS_TTL" default:"60s"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`
}

// DSN returns the data source name for the configured driver
func (c *DBConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Database)
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	}
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Checker); err != nil {
		return nil, fmt.Errorf("failed to load checker config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Bot); err != nil {
		return nil, fmt.Errorf("failed to load bot config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Chat); err != nil {
		return nil, fmt.Errorf("failed to load chat config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Site); err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.DB.Driver != "mysql" && c.DB.Driver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be mysql or postgres")
	}
	if c.Checker.BatchSize <= 0 {
		return fmt.Errorf("CHECKER_BATCH_SIZE must be positive")
	}
	if c.Checker.ProbeTimeout <= 0 {
		return fmt.Errorf("CHECKER_PROBE_TIMEOUT must be positive")
	}
	if c.Checker.Enabled && c.Checker.Interval <= 0 {
		return fmt.Errorf("CHECKER_INTERVAL must be positive")
	}
	if c.Checker.RateLimit < 0 {
		return fmt.Errorf("CHECKER_RATE_LIMIT must not be negative")
	}
	if c.Chat.ResultLimit <= 0 {
		return fmt.Errorf("CHAT_RESULT_LIMIT must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	return nil
}
