package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	BoardHeight     int
	BoardWidth      int
	RedisEnabled    bool
	RedisURL        string
	RedisPassword   string
	SnapshotTTL     time.Duration
	GameIdleTTL     time.Duration
	CleanupInterval time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")
	env := GetEnv("APP_ENV", "production")
	logLevel := GetEnv("LOG_LEVEL", "info")

	// CORS: localhost for development plus any CSV values
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := GetEnv("ALLOWED_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Default board for games created without explicit dimensions
	boardHeight := GetEnvAsInt("BOARD_HEIGHT", 6)
	boardWidth := GetEnvAsInt("BOARD_WIDTH", 7)

	// Redis snapshot cache
	redisEnabled := GetEnvAsBool("REDIS_ENABLED", true)
	redisURL := GetEnv("REDIS_URL", "localhost:6379")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	snapshotTTLMin := GetEnvAsInt("SNAPSHOT_TTL_MINUTES", 60)

	// Session housekeeping
	idleTTLMin := GetEnvAsInt("GAME_IDLE_TTL_MINUTES", 120)
	cleanupIntervalMin := GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 10)

	AppConfig = &Config{
		Port:            port,
		Env:             env,
		LogLevel:        logLevel,
		AllowedOrigins:  allowedOrigins,
		BoardHeight:     boardHeight,
		BoardWidth:      boardWidth,
		RedisEnabled:    redisEnabled,
		RedisURL:        redisURL,
		RedisPassword:   redisPassword,
		SnapshotTTL:     time.Duration(snapshotTTLMin) * time.Minute,
		GameIdleTTL:     time.Duration(idleTTLMin) * time.Minute,
		CleanupInterval: time.Duration(cleanupIntervalMin) * time.Minute,
	}

	return AppConfig
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
