package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env              string
	ListenAddr       string
	MaxConnections   int
	Store            string
	DatabaseURL      string
	DBMaxConns       int
	LogLevel         string
	LogFormat        string
	JWTSecret        string
	NATSURL          string
	RedisURL         string
	CacheTTL         time.Duration
	ScoringFile      string
	SnapshotSchedule string
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment. A missing DATABASE_URL with the postgres store
// is reported as an error alongside a usable config so callers can decide.
func Load() (Config, error) {
	cfg := Config{
		Env:              getenv("APP_ENV", "development"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		MaxConnections:   getenvInt("MAX_CONNECTIONS", 512),
		Store:            getenv("STORE", StorePostgres),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       getenvInt("DB_MAX_CONNS", 10),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		NATSURL:          os.Getenv("NATS_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CacheTTL:         getenvDuration("CACHE_TTL", 0),
		ScoringFile:      os.Getenv("SCORING_FILE"),
		SnapshotSchedule: getenv("SNAPSHOT_SCHEDULE", "@hourly"),
	}
	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return cfg, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}
	if cfg.Store == StorePostgres && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
