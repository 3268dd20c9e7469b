package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	Port          string
	DBPath        string
	CommitMatches bool
	MaxUploadMB   int64
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "reconciler.db"),
		CommitMatches: os.Getenv("COMMIT_MATCHES") == "true",
		MaxUploadMB:   32,
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb < 1 {
			return nil, errors.New("MAX_UPLOAD_MB must be a positive integer")
		}
		cfg.MaxUploadMB = mb
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
