package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HTTPHost      string // Host the HTTP server binds to
	HTTPPort      int    // Port for the HTTP server
	CheckpointDir string // Root directory of trained policy checkpoints
	LogLevel      string // zerolog level name
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file when one is present.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HTTPHost:      getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:      getEnvAsInt("HTTP_PORT", 8000),
		CheckpointDir: getEnv("CHECKPOINT_DIR", "checkpoints"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv retrieves the value of an environment variable or returns the fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves the value of an environment variable as an integer,
// or logs a fatal error if it is set but cannot be parsed.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
