package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultAuthSecret секрет для разработки, в production запрещён
const DefaultAuthSecret = "dev-secret-change-me"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TokenFormatHMAC = "hmac"
	TokenFormatJWT  = "jwt"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN       string `env:"DB_DSN" envDefault:"employability.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	Auth  AuthConfig  `envPrefix:"AUTH_"`
	Admin AdminConfig `envPrefix:"ADMIN_"`

	AllowOverlappingSlots bool     `env:"ALLOW_OVERLAPPING_SLOTS" envDefault:"false"`
	Timezone              string   `env:"TIMEZONE" envDefault:"America/Caracas"`
	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	DefaultPageLimit      int      `env:"DEFAULT_PAGE_LIMIT" envDefault:"20"`
	MaxPageLimit          int      `env:"MAX_PAGE_LIMIT" envDefault:"100"`

	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Telegram  TelegramConfig  `envPrefix:"TELEGRAM_"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type AuthConfig struct {
	Secret      string        `env:"SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TokenFormat string        `env:"TOKEN_FORMAT" envDefault:"hmac"`
}

type AdminConfig struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
	Name     string `env:"NAME" envDefault:"Administrador"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RPS" envDefault:"1"`
	Burst int     `env:"BURST" envDefault:"5"`
}

// RedisConfig пустой Addr отключает Redis
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// TelegramConfig пустой Token отключает уведомления
type TelegramConfig struct {
	Token  string `env:"TOKEN"`
	ChatID int64  `env:"CHAT_ID"`
}

// Load читает .env (если файл есть) и переменные окружения
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	switch c.Auth.TokenFormat {
	case TokenFormatHMAC, TokenFormatJWT:
	default:
		return fmt.Errorf("AUTH_TOKEN_FORMAT must be %q or %q, got %q", TokenFormatHMAC, TokenFormatJWT, c.Auth.TokenFormat)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET is required but not set")
	}
	if c.IsProduction() && c.Auth.Secret == DefaultAuthSecret {
		return fmt.Errorf("AUTH_SECRET must be changed in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}

	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.DefaultPageLimit <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be positive")
	}
	if c.MaxPageLimit < c.DefaultPageLimit {
		return fmt.Errorf("MAX_PAGE_LIMIT must be at least DEFAULT_PAGE_LIMIT")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// IsProduction сообщает, запущен ли сервис в production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location часовой пояс, по которому определяется "сегодня"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
