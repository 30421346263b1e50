package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Addr           string
	DBPath         string
	LogLevel       string
	LogColors      bool
	StorageBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	PassThreshold  int
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		DBPath:         envOr("DB_PATH", "file:quizday.db"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		LogColors:      envBoolOr("LOG_COLORS", true),
		StorageBackend: strings.ToLower(envOr("STORAGE_BACKEND", BackendSQLite)),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envIntOr("REDIS_DB", 0),
		RedisKeyPrefix: envOr("REDIS_KEY_PREFIX", "quizday:"),
		PassThreshold:  envIntOr("PASS_THRESHOLD", 70),
		SessionTTL:     envDurationOr("SESSION_TTL", 2*time.Hour),
		RequestTimeout: envDurationOr("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			problems = append(problems, "DB_PATH cannot be empty")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			problems = append(problems, "REDIS_ADDR cannot be empty")
		}
		if c.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("REDIS_DB must be >= 0, got %d", c.RedisDB))
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND %q must be %q or %q", c.StorageBackend, BackendSQLite, BackendRedis))
	}
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		problems = append(problems, fmt.Sprintf("PASS_THRESHOLD must be between 0 and 100, got %d", c.PassThreshold))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
