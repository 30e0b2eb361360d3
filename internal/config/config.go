package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Audit         AuditConfig
	ArchiveDB     ArchiveDBConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AuthConfig holds access-token verification configuration
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

// AuditConfig holds the in-memory audit log configuration
type AuditConfig struct {
	Capacity int
}

// ArchiveDBConfig holds the optional durable audit archive database.
// The archive is enabled only when a host is configured.
type ArchiveDBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// Enabled reports whether a durable archive database is configured.
func (c ArchiveDBConfig) Enabled() bool {
	return c.Host != ""
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	OTELEnabled    bool
	ServiceName    string
	ServiceVersion string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("AUTH_TOKEN_SECRET", ""),
			TokenTTL:    parseDuration("AUTH_TOKEN_TTL", "24h"),
		},
		Audit: AuditConfig{
			Capacity: parseInt("AUDIT_LOG_CAPACITY", 1000),
		},
		ArchiveDB: ArchiveDBConfig{
			Host:         getEnv("AUDIT_DB_HOST", ""),
			Port:         getEnv("AUDIT_DB_PORT", "5432"),
			User:         getEnv("AUDIT_DB_USER", "reflect"),
			Password:     getEnv("AUDIT_DB_PASSWORD", ""),
			Database:     getEnv("AUDIT_DB_NAME", "reflect_access"),
			SSLMode:      getEnv("AUDIT_DB_SSLMODE", "disable"),
			MaxOpenConns: parseInt("AUDIT_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: parseInt("AUDIT_DB_MAX_IDLE_CONNS", 2),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			OTELEnabled:    parseBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "reflect-access"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: float64(parseInt("RATELIMIT_RPS", 20)),
			Burst:             parseInt("RATELIMIT_BURST", 40),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if c.ArchiveDB.Enabled() && c.ArchiveDB.Password == "" {
		return fmt.Errorf("AUDIT_DB_PASSWORD is required when AUDIT_DB_HOST is set")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
}
