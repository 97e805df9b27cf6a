package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/danupra/hrisgo/pkg/config"
)

// Token store backends.
const (
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"
)

// Config holds all configuration for the HRIS service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"hris"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"hris_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"hris_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Refresh token store backend: postgres or redis.
	TokenStore string `env:"TOKEN_STORE" envDefault:"postgres"`

	// Redis, only used when TOKEN_STORE=redis.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT. Access and refresh tokens are signed with distinct secrets so a
	// token of one class can never pass verification as the other.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET" envDefault:"change-this-access-secret"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRATION" envDefault:"1h"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET" envDefault:"change-this-refresh-secret"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRATION" envDefault:"168h"`

	// Cookie carrying the refresh token.
	RefreshTokenCookieName string `env:"REFRESH_TOKEN_COOKIE_NAME" envDefault:"refreshToken"`

	// Role assigned to accounts created through sign-up.
	DefaultRoleID string `env:"DEFAULT_ROLE_ID" envDefault:"employee"`

	// Rate limiting on the auth endpoints, enforced outside development.
	AuthRateLimitRPS   int `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.TokenStore != TokenStorePostgres && cfg.TokenStore != TokenStoreRedis {
		return nil, fmt.Errorf("invalid TOKEN_STORE %q: must be %q or %q", cfg.TokenStore, TokenStorePostgres, TokenStoreRedis)
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	// In non-development environments, require explicitly set, strong secrets.
	if cfg.Environment != "development" {
		if cfg.AccessTokenSecret == "change-this-access-secret" {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if cfg.RefreshTokenSecret == "change-this-refresh-secret" {
			return nil, fmt.Errorf("REFRESH_TOKEN_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.AccessTokenSecret) < 32 {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be at least 32 characters long, got %d", len(cfg.AccessTokenSecret))
		}
		if len(cfg.RefreshTokenSecret) < 32 {
			return nil, fmt.Errorf("REFRESH_TOKEN_SECRET must be at least 32 characters long, got %d", len(cfg.RefreshTokenSecret))
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
