package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"masscal/domain/calibration"
	"masscal/internal"
	"masscal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Calibration calibration.InputDefaults
	Batch       BatchConfig
	Readings    ReadingsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level internal.LogLevel
}

// BatchConfig bounds concurrent batch computations
type BatchConfig struct {
	Concurrency int
}

// ReadingsConfig controls spreadsheet import
type ReadingsConfig struct {
	Sheet string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Server = *loadServerConfig()

	logging, err := loadLoggingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load logging configuration")
	}
	config.Logging = *logging

	defaults, err := loadCalibrationDefaults()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load calibration defaults")
	}
	config.Calibration = *defaults

	config.Batch = BatchConfig{Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4)}
	config.Readings = ReadingsConfig{Sheet: getEnvOrDefault("READINGS_SHEET", "Sheet1")}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging:     LoggingConfig{Level: internal.LogLevelInfo},
		Calibration: calibration.DefaultInputDefaults(),
		Batch:       BatchConfig{Concurrency: 4},
		Readings:    ReadingsConfig{Sheet: "Sheet1"},
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadLoggingConfig() (*LoggingConfig, error) {
	raw := getEnvOrDefault("LOG_LEVEL", "INFO")
	level, ok := internal.ParseLogLevel(raw)
	if !ok {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE; got " + raw)
	}
	return &LoggingConfig{Level: level}, nil
}

func loadCalibrationDefaults() (*calibration.InputDefaults, error) {
	unit, err := calibration.ParseReadingUnit(getEnvOrDefault("READING_UNIT", "mg"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	return &calibration.InputDefaults{
		Unit:           unit,
		CoverageFactor: getEnvFloatOrDefault("DEFAULT_COVERAGE_FACTOR", 2.0),
		DensityKgM3:    getEnvFloatOrDefault("DEFAULT_DENSITY", 7950.0),
	}, nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Calibration.CoverageFactor <= 0 {
		return errors.ConfigInvalid("DEFAULT_COVERAGE_FACTOR must be positive")
	}
	if config.Calibration.DensityKgM3 <= 0 {
		return errors.ConfigInvalid("DEFAULT_DENSITY must be positive")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if strings.TrimSpace(config.Readings.Sheet) == "" {
		return errors.ConfigInvalid("READINGS_SHEET must not be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
