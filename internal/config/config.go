package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string
	LogLevel      slog.Level
	LogFile       string
	DataDir       string
	World         string // World file under DataDir/worlds
	RedisURL      string // Empty disables the world cache
	WorldCacheTTL time.Duration

	StartingOxygen int
	OxygenPerMove  int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:     getEnv("LOG_FILE", "lost-in-space.log"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		World:       getEnv("WORLD", "lost_in_space.json"),
		RedisURL:    getEnv("REDIS_URL", ""),
	}

	var err error
	if cfg.WorldCacheTTL, err = time.ParseDuration(getEnv("WORLD_CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid WORLD_CACHE_TTL value: %w", err)
	}
	if cfg.StartingOxygen, err = getEnvInt("STARTING_OXYGEN", 100); err != nil {
		return nil, err
	}
	if cfg.StartingOxygen <= 0 {
		return nil, fmt.Errorf("STARTING_OXYGEN must be positive, got %d", cfg.StartingOxygen)
	}
	if cfg.OxygenPerMove, err = getEnvInt("OXYGEN_PER_MOVE", 2); err != nil {
		return nil, err
	}
	if cfg.OxygenPerMove < 0 {
		return nil, fmt.Errorf("OXYGEN_PER_MOVE cannot be negative, got %d", cfg.OxygenPerMove)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}
