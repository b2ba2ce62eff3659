package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
	Shop     ShopConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"brewpos"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"12h"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"brewpos"`
}

// S3Config holds AWS S3 configuration for catalogue files.
type S3Config struct {
	Enabled bool   `env:"S3_ENABLED" envDefault:"false"`
	Bucket  string `env:"S3_BUCKET"`
	Region  string `env:"S3_REGION" envDefault:"us-east-1"`
	Prefix  string `env:"S3_PREFIX" envDefault:"catalog/"` // Path prefix within bucket
}

// CatalogConfig lists catalogue files imported at startup.
type CatalogConfig struct {
	Files []string `env:"CATALOG_FILES" envSeparator:","`
}

// ShopConfig holds defaults used until the back office saves its own settings.
type ShopConfig struct {
	Name              string          `env:"SHOP_NAME" envDefault:"Coffee Shop POS"`
	DefaultTaxRate    decimal.Decimal `env:"DEFAULT_TAX_RATE" envDefault:"0.08"`
	Currency          string          `env:"CURRENCY" envDefault:"USD"`
	OrderNumberPrefix string          `env:"ORDER_NUMBER_PREFIX" envDefault:"CMD"`

	// Carts untouched for CartIdleTTL are discarded; the reaper wakes every CartSweepInterval.
	CartIdleTTL       time.Duration `env:"CART_IDLE_TTL" envDefault:"2h"`
	CartSweepInterval time.Duration `env:"CART_SWEEP_INTERVAL" envDefault:"5m"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT secret must be at least 16 characters")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Shop.DefaultTaxRate.IsNegative() || c.Shop.DefaultTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("invalid default tax rate: %s (must be between 0 and 1)", c.Shop.DefaultTaxRate)
	}

	if c.Shop.OrderNumberPrefix == "" {
		return fmt.Errorf("order number prefix is required")
	}

	if c.Shop.CartIdleTTL <= 0 || c.Shop.CartSweepInterval <= 0 {
		return fmt.Errorf("cart idle TTL and sweep interval must be positive")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
