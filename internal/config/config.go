package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the defaults for a conversion run. Command-line flags
// override these values.
type Config struct {
	// Logging
	LogLevel string
	LogFile  string

	// Conversion defaults
	Format  string
	Charset string
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		LogLevel: getEnvOrDefault("HTML2TAG_LOG_LEVEL", "warn"),
		LogFile:  getEnvOrDefault("HTML2TAG_LOG_FILE", ""),
		Format:   getEnvOrDefault("HTML2TAG_FORMAT", "tsv"),
		Charset:  getEnvOrDefault("HTML2TAG_CHARSET", ""),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
