package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAPIURL      = "http://192.168.0.107:3000"
	DefaultTimeout     = 10 * time.Second
	DefaultSlowCallMs  = 800
	DefaultStore       = StoreSQLite
	DefaultDBPath      = "coachdesk.db"
	DefaultRedisURL    = "redis://127.0.0.1:6379/0"
	DefaultDevAddr     = ":3000"
	DefaultDevJWTKey   = "dev-secret"
	DefaultDevTokenTTL = 24 * time.Hour
)

// Credential store kinds.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

var (
	ErrInvalidAPIURL = errors.New("invalid COACHDESK_API_URL")
	ErrUnknownStore  = errors.New("unknown COACHDESK_STORE")
)

// Config is the process configuration for both commands.
type Config struct {
	APIURL        string
	Timeout       time.Duration
	SlowCallMs    int
	Store         string
	DBPath        string
	RedisURL      string
	CredentialKey string
	DevAddr       string
	DevJWTSecret  string
	DevTokenTTL   time.Duration
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named). Missing files are skipped; variables already set are not overridden.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("dotenv_load_failed", "path", p, "error", err)
			continue
		}
		slog.Debug("dotenv_loaded", "path", p)
	}
}

// Load reads the configuration from the environment.
// PRE: none
// POST: every field is set, from the environment or its default
func Load() Config {
	return Config{
		APIURL:        strings.TrimRight(envOrDefault("COACHDESK_API_URL", DefaultAPIURL), "/"),
		Timeout:       envDuration("COACHDESK_TIMEOUT", DefaultTimeout),
		SlowCallMs:    envInt("COACHDESK_SLOW_CALL_MS", DefaultSlowCallMs),
		Store:         strings.ToLower(envOrDefault("COACHDESK_STORE", DefaultStore)),
		DBPath:        envOrDefault("COACHDESK_DB_PATH", DefaultDBPath),
		RedisURL:      envOrDefault("COACHDESK_REDIS_URL", DefaultRedisURL),
		CredentialKey: os.Getenv("COACHDESK_CREDENTIAL_KEY"),
		DevAddr:       envOrDefault("COACHDESK_DEV_ADDR", DefaultDevAddr),
		DevJWTSecret:  envOrDefault("COACHDESK_DEV_JWT_SECRET", DefaultDevJWTKey),
		DevTokenTTL:   envDuration("COACHDESK_DEV_TOKEN_TTL", DefaultDevTokenTTL),
	}
}

// Validate checks the fields a client needs.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.APIURL)
	}
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("%w: %q (want sqlite, redis or memory)", ErrUnknownStore, c.Store)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// envDuration accepts a Go duration under key, or whole seconds under key_SECONDS.
func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
