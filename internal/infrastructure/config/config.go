package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Checkout    CheckoutConfig
	Retry       RetryConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT verification settings. The service only verifies
// tokens issued elsewhere; it never issues them.
type JWTConfig struct {
	Secret string
	Issuer string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// CheckoutConfig holds checkout behavior settings
type CheckoutConfig struct {
	// TaxRate is applied to the undiscounted subtotal of every sale
	TaxRate float64
}

// RetryConfig bounds the retry loop around optimistic-lock conflicts
type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// IdempotencyConfig holds idempotency key handling settings
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// TelemetryConfig holds OpenTelemetry tracing settings
type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string // OTLP gRPC collector, host:port
	SamplingRatio float64
	Insecure      bool
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with RETAIL_ prefix (e.g., RETAIL_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaulted through viper rather than in applyDefaults so an explicit
	// zero survives: a zero-tax jurisdiction is a valid configuration, and
	// a zero sampling ratio means never sample.
	v.SetDefault("checkout.tax_rate", 0.08)
	v.SetDefault("telemetry.sampling_ratio", 1.0)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Checkout: CheckoutConfig{
			TaxRate: v.GetFloat64("checkout.tax_rate"),
		},
		Retry: RetryConfig{
			MaxAttempts: v.GetInt("retry.max_attempts"),
			Backoff:     v.GetDuration("retry.backoff"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("telemetry.enabled"),
			Endpoint:      v.GetString("telemetry.endpoint"),
			SamplingRatio: v.GetFloat64("telemetry.sampling_ratio"),
			Insecure:      v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "retailops-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "retailops"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "retailops"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.Backoff == 0 {
		cfg.Retry.Backoff = 25 * time.Millisecond
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Checkout.TaxRate < 0 || c.Checkout.TaxRate >= 1 {
		return fmt.Errorf("checkout.tax_rate must be in [0, 1), got %f", c.Checkout.TaxRate)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be in [0, 1], got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
