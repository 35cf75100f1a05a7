// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config gathers every environment setting the binaries read.
// Values come from the process environment; the binaries load a .env file first via godotenv.
type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string
	LogLevel       logrus.Level
	CatalogPath    string

	DatabaseURL string

	RedisAddr  string
	RedisDB    int
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration
	Inactivity time.Duration
}

// Production reports whether LANDGRAB_ENV is "production".
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment, filling in defaults.
func Load() (Config, error) {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("LANDGRAB_ENV", "development"),
		LogLevel:    level,
		CatalogPath: os.Getenv("CATALOG_PATH"),
		DatabaseURL: databaseURL(),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", "landgrab_turns"),
		BatchSize:   getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay:  time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
		Inactivity:  time.Duration(getEnvInt("MATCH_INACTIVITY_TIMEOUT_SEC", 600)) * time.Second,
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from the PG_* variables.
// It returns "" when neither is configured.
func databaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	host := os.Getenv("PG_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		host,
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
