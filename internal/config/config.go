package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port          int    `mapstructure:"PORT"`
	Env           string `mapstructure:"APP_ENV"` // development | production
	CORSOrigin    string `mapstructure:"CORS_ALLOWED_ORIGIN"`
	LoginAttempts int    `mapstructure:"LOGIN_ATTEMPTS_PER_MINUTE"`

	// Inventory API
	InventoryAPIURL        string `mapstructure:"INVENTORY_API_URL"`
	InventoryAPIUsername   string `mapstructure:"INVENTORY_API_USERNAME"`
	InventoryAPIPassword   string `mapstructure:"INVENTORY_API_PASSWORD"`
	UpstreamTimeoutSeconds int    `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	CBFailureThreshold     int    `mapstructure:"CB_FAILURE_THRESHOLD"`
	CBOpenTimeoutSeconds   int    `mapstructure:"CB_OPEN_TIMEOUT_SECONDS"`

	// Sessions
	RedisURL           string `mapstructure:"REDIS_URL"` // empty: in-memory sessions
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	SessionTTLHours    int    `mapstructure:"SESSION_TTL_HOURS"`
	PortalUsername     string `mapstructure:"PORTAL_USERNAME"`
	PortalPasswordHash string `mapstructure:"PORTAL_PASSWORD_HASH"`

	// Views & background work
	RefreshIntervalSeconds int  `mapstructure:"REFRESH_INTERVAL_SECONDS"` // 0 disables periodic refresh
	ItemsPageSize          int  `mapstructure:"ITEMS_PAGE_SIZE"`
	SuppliersPageSize      int  `mapstructure:"SUPPLIERS_PAGE_SIZE"`
	NotificationFeedSize   int  `mapstructure:"NOTIFICATION_FEED_SIZE"`
	MetricsEnabled         bool `mapstructure:"METRICS_ENABLED"`
}

const devJWTSecret = "dev-only-change-me"

var (
	ErrMissingAPIURL    = errors.New("config: INVENTORY_API_URL is required")
	ErrMissingJWTSecret = errors.New("config: JWT_SECRET must be set in production")
)

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("LOGIN_ATTEMPTS_PER_MINUTE", 20)
	v.SetDefault("INVENTORY_API_URL", "http://localhost:8080")
	v.SetDefault("INVENTORY_API_USERNAME", "")
	v.SetDefault("INVENTORY_API_PASSWORD", "")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	v.SetDefault("CB_FAILURE_THRESHOLD", 5)
	v.SetDefault("CB_OPEN_TIMEOUT_SECONDS", 30)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL_HOURS", 8)
	v.SetDefault("PORTAL_USERNAME", "admin")
	v.SetDefault("PORTAL_PASSWORD_HASH", "")
	v.SetDefault("REFRESH_INTERVAL_SECONDS", 60)
	v.SetDefault("ITEMS_PAGE_SIZE", 10)
	v.SetDefault("SUPPLIERS_PAGE_SIZE", 5)
	v.SetDefault("NOTIFICATION_FEED_SIZE", 50)
	v.SetDefault("METRICS_ENABLED", true)

	// Optional .env file for local development; does not fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.InventoryAPIURL == "" {
		return ErrMissingAPIURL
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return ErrMissingJWTSecret
		}
		c.JWTSecret = devJWTSecret
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

func (c *Config) CBOpenTimeout() time.Duration {
	return time.Duration(c.CBOpenTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
