package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"invoicing/internal/logger"
	"invoicing/internal/storage"
)

// Config holds the application configuration loaded from the environment.
type Config struct {
	// Storage Configuration
	DataDir            string
	MaxConcurrentReads int

	// Invoice Configuration
	StrictVatRates bool

	// Google Sheets Export Configuration (optional)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	maxReads, err := getEnvInt("INVOICING_MAX_CONCURRENT_READS", storage.DefaultMaxConcurrentReads)
	if err != nil {
		return nil, err
	}
	strict, err := getEnvBool("INVOICING_STRICT_VAT", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DataDir:              getEnv("INVOICING_DATA_DIR", defaultDataDir()),
		MaxConcurrentReads:   maxReads,
		StrictVatRates:       strict,
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Reports"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("INVOICING_DATA_DIR is required")
	}
	if c.MaxConcurrentReads <= 0 {
		return fmt.Errorf("INVOICING_MAX_CONCURRENT_READS must be positive, got %d", c.MaxConcurrentReads)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// InvoicesDir, ClientsDir and SettingsDir are the per-entity collection directories.
func (c *Config) InvoicesDir() string { return filepath.Join(c.DataDir, "invoices") }
func (c *Config) ClientsDir() string  { return filepath.Join(c.DataDir, "clients") }
func (c *Config) SettingsDir() string { return filepath.Join(c.DataDir, "settings") }

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".invoicing"
	}
	return filepath.Join(homeDir, ".invoicing")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
