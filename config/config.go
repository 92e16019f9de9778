package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Hours        HoursConfig        `mapstructure:"hours"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Studio       StudioConfig       `mapstructure:"studio"`
	Email        EmailConfig        `mapstructure:"email"`
	Push         PushConfig         `mapstructure:"push"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"`
	RequestIPHeader        string   `mapstructure:"request_ip_header"`
	RateLimitPerSec        float64  `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst         int      `mapstructure:"rate_limit_burst"`
	CacheTTLSeconds        int      `mapstructure:"cache_ttl_seconds"`
	AllowOrigins           []string `mapstructure:"allow_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds"`
}

// DatabaseConfig holds the database connection configuration.
// Driver is one of postgres, sqlite or memory.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"`
	DSN                    string `mapstructure:"dsn"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	FallbackMemory         bool   `mapstructure:"fallback_memory"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds the admin credential and token settings.
// AdminPasswordHash, when set, takes precedence over AdminPassword.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AdminPassword     string        `mapstructure:"admin_password"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

// HoursConfig seeds the base opening hours before any are saved.
type HoursConfig struct {
	WeekdayOpen  string `mapstructure:"weekday_open"`
	WeekdayClose string `mapstructure:"weekday_close"`
	WeekendOpen  string `mapstructure:"weekend_open"`
	WeekendClose string `mapstructure:"weekend_close"`
}

// StoreHours converts the configured defaults to the persisted model.
func (h HoursConfig) StoreHours() model.StoreHours {
	return model.StoreHours{
		ID:      model.StoreHoursID,
		Weekday: model.OpenClose{Open: h.WeekdayOpen, Close: h.WeekdayClose},
		Weekend: model.OpenClose{Open: h.WeekendOpen, Close: h.WeekendClose},
	}
}

// CatalogConfig points at an optional YAML service catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StudioConfig is the branding used in confirmation messages.
type StudioConfig struct {
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	Phone   string `mapstructure:"phone"`
	Address string `mapstructure:"address"`
}

// EmailConfig holds the SMTP settings. Email is disabled when Username is empty.
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether SMTP credentials are configured.
func (e EmailConfig) Enabled() bool {
	return e.Username != "" && e.Password != ""
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `mapstructure:"vapid_public_key"`
	PrivateKey string `mapstructure:"vapid_private_key"`
	Subject    string `mapstructure:"subject"`
	TTL        int    `mapstructure:"ttl"`
}

// Enabled reports whether a VAPID key pair is configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// NotificationConfig selects how confirmations are delivered.
// Backend is one of pool, asynq or none.
type NotificationConfig struct {
	Backend    string           `mapstructure:"backend"`
	WorkerPool WorkerPoolConfig `mapstructure:"worker_pool"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size         int           `mapstructure:"size"`
	QueueSize    int           `mapstructure:"queue_size"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// RedisConfig is used by the asynq backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.request_ip_header", "")
	v.SetDefault("server.rate_limit_per_sec", 5)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("server.cache_ttl_seconds", 10)
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "salon.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 30)
	v.SetDefault("database.fallback_memory", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "8h")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_password_hash", "")

	v.SetDefault("hours.weekday_open", "09:00")
	v.SetDefault("hours.weekday_close", "19:00")
	v.SetDefault("hours.weekend_open", "10:00")
	v.SetDefault("hours.weekend_close", "18:00")

	v.SetDefault("catalog.path", "")

	v.SetDefault("studio.name", "H&L Hair Studio")
	v.SetDefault("studio.url", "")
	v.SetDefault("studio.phone", "")
	v.SetDefault("studio.address", "")

	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")

	v.SetDefault("push.vapid_public_key", "")
	v.SetDefault("push.vapid_private_key", "")

	v.SetDefault("push.subject", "mailto:admin@example.com")
	v.SetDefault("push.ttl", 3600)

	v.SetDefault("notification.backend", "pool")
	v.SetDefault("notification.worker_pool.size", 2)
	v.SetDefault("notification.worker_pool.queue_size", 100)
	v.SetDefault("notification.worker_pool.max_attempts", 3)
	v.SetDefault("notification.worker_pool.retry_backoff", "2s")
	v.SetDefault("notification.redis.addr", "localhost:6379")
	v.SetDefault("notification.redis.password", "")
	v.SetDefault("notification.redis.db", 0)
}

// Load reads the configuration from the given path, falling back to
// ./config.yaml, then applies SALON_ prefixed environment overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	switch c.Notification.Backend {
	case "pool", "asynq", "none":
	default:
		return fmt.Errorf("config: unknown notification.backend %q", c.Notification.Backend)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	for _, w := range []struct{ name, open, close string }{
		{"weekday", c.Hours.WeekdayOpen, c.Hours.WeekdayClose},
		{"weekend", c.Hours.WeekendOpen, c.Hours.WeekendClose},
	} {
		if _, err := clock.ParseInterval(w.open, w.close); err != nil {
			return fmt.Errorf("config: %s hours: %w", w.name, err)
		}
	}
	return nil
}
