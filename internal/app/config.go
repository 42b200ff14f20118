package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/trimline/seatcase/pkg/tokenx"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens
	CookieName    string        // Optional: session cookie name (default: sc_session)
	CookieSecure  bool          // Optional: mark the cookie TLS-only (default: false)
	SessionTTL    time.Duration // Optional: session token lifetime (default: 7 days)

	BootstrapUsername string // Optional: bootstrap admin username (default: admin)
	BootstrapPassword string // Optional: bootstrap admin password (generated when empty)

	DatabaseFile string // Optional: path to SQLite database file (default: ./seatcase.db)
	UploadDir    string // Optional: directory for uploaded media (default: ./uploads)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SessionSecret:       os.Getenv("SEATCASE_SESSION_SECRET"),
		CookieName:          getEnvOrDefault("SEATCASE_COOKIE_NAME", "sc_session"),
		CookieSecure:        os.Getenv("SEATCASE_COOKIE_SECURE") == "true",
		SessionTTL:          getEnvDurationOrDefault("SEATCASE_SESSION_TTL", tokenx.DefaultSessionTTL),
		BootstrapUsername:   getEnvOrDefault("SEATCASE_BOOTSTRAP_USERNAME", "admin"),
		BootstrapPassword:   os.Getenv("SEATCASE_BOOTSTRAP_PASSWORD"),
		DatabaseFile:        getEnvOrDefault("SEATCASE_DATABASE_FILE", "seatcase.db"),
		UploadDir:           getEnvOrDefault("SEATCASE_UPLOAD_DIR", "uploads"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations that must not reach a running server.
// A missing session secret is fatal: silently falling back to a known
// default would make every deployment's cookies forgeable.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SEATCASE_SESSION_SECRET is required")
	}
	if c.CookieName == "" {
		return errors.New("SEATCASE_COOKIE_NAME must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SEATCASE_SESSION_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
