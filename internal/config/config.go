package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

// Config holds all configuration for the application
type Config struct {
	Port                string
	Version             string
	LogLevel            string
	BackendURL          string // Base URL of the AI/Gmail backend (no trailing slash)
	BackendTimeout      int    // Backend request timeout in seconds
	InboxPageSize       int    // Default number of messages per inbox fetch
	SessionStore        string // memory, redis or sql
	SessionTTLHours     int    // Lifetime of a dashboard session and its cached view state
	SessionCookieSecure bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SessionDatabaseURL  string // postgres:// or mysql DSN, used when SessionStore is sql
	MetricsEnabled      bool
	CORSAllowedOrigins  []string // Origins allowed to call the API with the session cookie
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                getEnv("PORT", "8080"),
		Version:             getEnv("VERSION", "1.0.0"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		BackendURL:          strings.TrimRight(getEnv("BACKEND_API_URL", "http://localhost:8000"), "/"),
		BackendTimeout:      getEnvInt("BACKEND_TIMEOUT", 30),
		InboxPageSize:       getEnvInt("INBOX_PAGE_SIZE", 10),
		SessionStore:        strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
		SessionTTLHours:     getEnvInt("SESSION_TTL_HOURS", 24),
		SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		SessionDatabaseURL:  os.Getenv("SESSION_DATABASE_URL"),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	return config
}

// BackendTimeoutDuration returns the backend timeout as a duration
func (c *Config) BackendTimeoutDuration() time.Duration {
	if c.BackendTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.BackendTimeout) * time.Second
}

// SessionTTL returns the session lifetime as a duration
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as boolean with a default fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable, dropping blanks
func getEnvList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "opsassistant").
		Str("version", c.Version).
		Logger()

	// Set log level based on configuration
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
