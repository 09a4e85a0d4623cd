package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// File names inside the data directory.
const (
	CalendarsFile   = "calendars.json"
	CredentialsFile = "app-credentials.json"

	DefaultDataDir        = "_data"
	DefaultEnvFile        = ".env"
	DefaultConsentTimeout = 5 * time.Minute
)

// Settings holds the runtime settings resolved from flags and environment.
type Settings struct {
	// DataDir holds the credentials, token and calendars files (default: _data)
	DataDir string

	// ConfigPath overrides <DataDir>/calendars.json
	ConfigPath string

	// CredentialsPath overrides <DataDir>/app-credentials.json
	CredentialsPath string

	// LogFormat is "text" or "json" (default: text)
	LogFormat string

	// Debug enables debug logging
	Debug bool

	// ConsentTimeout bounds the browser consent flow (default: 5m)
	ConsentTimeout time.Duration
}

// DefaultSettings returns Settings populated from environment variables.
func DefaultSettings() Settings {
	return Settings{
		DataDir:         getEnvOrDefault("YOTEI_DATA_DIR", DefaultDataDir),
		ConfigPath:      getEnvOrDefault("YOTEI_CONFIG", ""),
		CredentialsPath: getEnvOrDefault("YOTEI_CREDENTIALS", ""),
		LogFormat:       getEnvOrDefault("YOTEI_LOG_FORMAT", "text"),
		Debug:           getEnvOrDefault("YOTEI_DEBUG", "") != "",
		ConsentTimeout:  getEnvDurationOrDefault("YOTEI_CONSENT_TIMEOUT", DefaultConsentTimeout),
	}
}

// CalendarsPath returns the path of the calendars configuration file.
func (s Settings) CalendarsPath() string {
	if s.ConfigPath != "" {
		return s.ConfigPath
	}
	return filepath.Join(s.DataDir, CalendarsFile)
}

// AppCredentialsPath returns the path of the OAuth client secrets file.
func (s Settings) AppCredentialsPath() string {
	if s.CredentialsPath != "" {
		return s.CredentialsPath
	}
	return filepath.Join(s.DataDir, CredentialsFile)
}

// Validate checks that the settings can be used.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if s.ConsentTimeout <= 0 {
		return fmt.Errorf("consent timeout must be positive, got %s", s.ConsentTimeout)
	}
	return nil
}

// LoadEnvFile loads variables from an env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// EnvFilePath returns the env file named by YOTEI_ENV_FILE, or .env.
func EnvFilePath() string {
	return getEnvOrDefault("YOTEI_ENV_FILE", DefaultEnvFile)
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDurationOrDefault returns the duration value of an environment variable or a default value.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
