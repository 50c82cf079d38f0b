package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Best-score storage backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL           string
	TableEventsChannel string

	// Server
	Port        string
	FrontendURL string

	// Best score
	BestScoreBackend string
	BestScorePath    string
	BestScoreKey     string

	// Table defaults
	EnableZones   bool
	EnablePortals bool
	EnableBumpers bool
	FrameRate     int

	// Security
	JWTSecret         string
	TableTokenMinutes int
	AdminTokenHash    string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/chaospool?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		TableEventsChannel: getEnv("TABLE_EVENTS_CHANNEL", "chaospool:table-events"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Best score
		BestScoreBackend: strings.ToLower(getEnv("BEST_SCORE_BACKEND", BackendFile)),
		BestScorePath:    getEnv("BEST_SCORE_PATH", "highscore.txt"),
		BestScoreKey:     getEnv("BEST_SCORE_KEY", "chaospool:best-score"),

		// Table defaults
		EnableZones:   getEnvBool("ENABLE_ZONES", true),
		EnablePortals: getEnvBool("ENABLE_PORTALS", true),
		EnableBumpers: getEnvBool("ENABLE_BUMPERS", true),
		FrameRate:     getEnvInt("FRAME_RATE", 60),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		TableTokenMinutes: getEnvInt("TABLE_TOKEN_MINUTES", 120),
		AdminTokenHash:    getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
