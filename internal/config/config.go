package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port              string
	DBURL             string
	ReadTimeoutSecs   int
	WriteTimeoutSecs  int
	IdleTimeoutSecs   int
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
	DBMigrateOnStart  bool
	LogLevel          string
	RateLimitRPS      float64
	RateLimitBurst    int
}

// Load reads configuration from environment variables, applying defaults and validation.
// Values from a .env file in the working directory are used for keys not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := &envReader{}
	cfg := Config{
		Port:              env.stringVal("PORT", "8080"),
		DBURL:             os.Getenv("DB_URL"),
		ReadTimeoutSecs:   env.intVal("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:  env.intVal("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:   env.intVal("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:        env.intVal("DB_MAX_CONNS", 20),
		DBMinConns:        env.intVal("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     env.intVal("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     env.intVal("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: env.intVal("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  env.intVal("DB_STATEMENT_CACHE_CAPACITY", 256),
		DBMigrateOnStart:  env.boolVal("DB_MIGRATE_ON_START", true),
		LogLevel:          strings.ToLower(env.stringVal("LOG_LEVEL", "info")),
		RateLimitRPS:      env.floatVal("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    env.intVal("RATE_LIMIT_BURST", 20),
	}
	if env.err != nil {
		return Config{}, env.err
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMaxConns > math.MaxInt32 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must not exceed %d", math.MaxInt32)
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}

	return cfg, nil
}

// envReader reads typed environment values. The first malformed value is
// kept in err and later reads fall back to their defaults.
type envReader struct {
	err error
}

func (e *envReader) stringVal(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func (e *envReader) intVal(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		e.fail(key, val, "an integer")
		return fallback
	}
	return parsed
}

func (e *envReader) floatVal(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		e.fail(key, val, "a number")
		return fallback
	}
	return parsed
}

func (e *envReader) boolVal(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		e.fail(key, val, "a boolean")
		return fallback
	}
	return parsed
}

func (e *envReader) fail(key, val, want string) {
	if e.err == nil {
		e.err = fmt.Errorf("%s must be %s, got %q", key, want, val)
	}
}
