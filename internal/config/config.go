// Package config provides centralized configuration management for the card browser.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Source   SourceConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Browser  BrowserConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout stays 0 so the datastar streams are not cut off.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout applies to the JSON API routes only.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the optional PostgreSQL source.
// Leaving URL empty disables the database source.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Query is the statement whose result columns become the result set.
	Query string `env:"SOURCE_QUERY"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// RefreshInterval re-runs Query periodically; 0 loads once at startup.
	RefreshInterval time.Duration `env:"SOURCE_REFRESH_INTERVAL" default:"0s"`
}

// Enabled reports whether a database source is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// SourceConfig holds the optional file source.
type SourceConfig struct {
	// File is a JSON or YAML payload loaded at startup.
	File string `env:"SOURCE_FILE"`

	// Watch reloads File whenever it changes (default: true)
	Watch bool `env:"SOURCE_WATCH" default:"true"`
}

// SessionConfig holds the cookie store used for per-browser view state.
type SessionConfig struct {
	// Secret signs the session cookie. A random key is generated when empty,
	// which invalidates sessions on every restart.
	Secret string        `env:"SESSION_SECRET"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"24h"`
	Secure bool          `env:"SESSION_SECURE" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute applies to every route (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// UpdateLimit applies to POST /api/update (default: 30)
	UpdateLimit int `env:"RATE_LIMIT_UPDATE" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey protects the data-update endpoint (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys.
	APIKeys []string `env:"API_KEYS"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// BrowserConfig holds card browser behavior that is not part of the host settings.
type BrowserConfig struct {
	// Locale is the BCP 47 tag used to collate sort keys and facets (default: en)
	Locale string `env:"BROWSER_LOCALE" default:"en"`

	// MaxUpdateSize caps the data-update request body in bytes (default: 32MB)
	MaxUpdateSize int64 `env:"BROWSER_MAX_UPDATE_SIZE" default:"33554432"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
