package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Env string

	// Storage
	DBPath string

	// Stats provider
	NBAAPIBaseURL string
	RequestDelay  time.Duration
	CacheDir      string
	RedisURL      string // optional; disk cache is used when empty

	// Dataset build
	WorkerCount int
	Lag         int
	TopNPlayers int

	// Rating engine
	EloKFactor  float64
	EloScale    float64
	EloStarting float64
}

// Load loads configuration from environment variables. Every value has a
// default; nothing here is critical enough to abort startup over.
func Load() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Env: getEnv("ENV", "development"),

		DBPath: getEnv("DB_PATH", filepath.Join(home, ".nba-betting-ml", "nba.db")),

		NBAAPIBaseURL: getEnv("NBA_API_URL", "https://stats.nba.com/stats"),
		RequestDelay:  getEnvDuration("REQUEST_DELAY", 600*time.Millisecond),
		CacheDir:      getEnv("CACHE_DIR", filepath.Join(home, ".nba-betting-ml", "cache")),
		RedisURL:      getEnv("REDIS_URL", ""),

		WorkerCount: getEnvInt("WORKER_COUNT", 8),
		Lag:         getEnvInt("LAG", 10),
		TopNPlayers: getEnvInt("TOP_N_PLAYERS", 7),

		EloKFactor:  getEnvFloat("ELO_K_FACTOR", 20),
		EloScale:    getEnvFloat("ELO_SCALE", 400),
		EloStarting: getEnvFloat("ELO_STARTING", 1000),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
