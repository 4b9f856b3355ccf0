// Package config reads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vaughan-dsouza/postboard/internal/utils"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000/api"
	DefaultPort       = "3000"
	DefaultAPITimeout = 30 * time.Second
)

type Config struct {
	// APIBaseURL is the REST service, e.g. http://localhost:8000/api.
	APIBaseURL string
	APITimeout time.Duration

	Port string

	// LogFile, when set, receives a rotated copy of the logs.
	LogFile       string
	LogLevel      slog.Level
	LogMaxSizeMB  int
	LogMaxBackups int
}

// LoadDotenv loads files (default ".env") into the environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL: strings.TrimSuffix(utils.Getenv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		Port:       utils.Getenv("PORT", DefaultPort),
		LogFile:    utils.Getenv("LOG_FILE", ""),
	}

	timeout, err := utils.ParseDuration(utils.Getenv("API_TIMEOUT", ""), DefaultAPITimeout)
	if err != nil {
		return Config{}, fmt.Errorf("config: API_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return Config{}, fmt.Errorf("config: API_TIMEOUT must not be negative")
	}
	cfg.APITimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(utils.Getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	cfg.LogMaxSizeMB, err = strconv.Atoi(utils.Getenv("LOG_MAX_SIZE_MB", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("config: LOG_MAX_SIZE_MB: %w", err)
	}
	cfg.LogMaxBackups, err = strconv.Atoi(utils.Getenv("LOG_MAX_BACKUPS", "3"))
	if err != nil {
		return Config{}, fmt.Errorf("config: LOG_MAX_BACKUPS: %w", err)
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return Config{}, fmt.Errorf("config: PORT %q is not a port number", cfg.Port)
	}

	return cfg, nil
}

// Load is LoadDotenv followed by FromEnv.
func Load() (Config, error) {
	if err := LoadDotenv(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}
