package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string

	// Redis (solo-mode session store)
	RedisURL string

	// Game Settings
	InitialHandSize        int
	MinHandSize            int
	CleanupIntervalMinutes int
	AbandonedAfterMinutes  int

	// Solo mode
	SoloSessionTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Game Settings
		InitialHandSize:        getEnvInt("INITIAL_HAND_SIZE", 8),
		MinHandSize:            getEnvInt("MIN_HAND_SIZE", 5),
		CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", 5),
		AbandonedAfterMinutes:  getEnvInt("ABANDONED_AFTER_MINUTES", 30),

		// Solo mode
		SoloSessionTTLMinutes: getEnvInt("SOLO_SESSION_TTL_MINUTES", 30),
	}
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
