// Package config resolves tally's settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DBMode selects the SQLite driver backing the ledger.
type DBMode string

const (
	// DBModePlain is an unencrypted database file.
	DBModePlain DBMode = "plain"
	// DBModeSecure is a SQLCipher database keyed from the system keyring.
	DBModeSecure DBMode = "secure"
)

// DB locates the ledger database.
type DB struct {
	Mode DBMode
	Path string
}

// Config holds all application configuration.
type Config struct {
	DB DB

	LogPath  string
	LogLevel string

	// FrameInterval is the delay between chart reveal frames.
	FrameInterval time.Duration
}

const defaultFrameInterval = 2 * time.Millisecond

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	db, err := loadDB()
	if err != nil {
		return Config{}, err
	}

	logPath := getEnv("TALLY_LOG_PATH", "")
	if logPath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user cache directory: %w", err)
		}
		logPath = filepath.Join(cacheDir, "tally", "tally.log")
	}

	interval, err := getEnvDuration("TALLY_FRAME_INTERVAL", defaultFrameInterval)
	if err != nil {
		return Config{}, err
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("TALLY_FRAME_INTERVAL must be positive, got %s", interval)
	}

	return Config{
		DB:            db,
		LogPath:       logPath,
		LogLevel:      strings.ToLower(getEnv("TALLY_LOG_LEVEL", "info")),
		FrameInterval: interval,
	}, nil
}

// LoadDB resolves only the database settings. Commands that never open the
// TUI use it so a bad log or frame setting does not block them.
func LoadDB() (DB, error) {
	return loadDB()
}

func loadDB() (DB, error) {
	mode := DBMode(strings.ToLower(getEnv("TALLY_DB_MODE", string(DBModePlain))))
	switch mode {
	case DBModePlain, DBModeSecure:
	default:
		return DB{}, fmt.Errorf("TALLY_DB_MODE must be %q or %q, got %q", DBModePlain, DBModeSecure, mode)
	}

	if dbPath := getEnv("TALLY_DB_PATH", ""); dbPath != "" {
		return DB{Mode: mode, Path: dbPath}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return DB{}, fmt.Errorf("resolve user config directory: %w", err)
	}
	return DB{
		Mode: mode,
		Path: filepath.Join(configDir, "tally", "tally.db"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
