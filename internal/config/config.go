// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DataPath     string
	ModelPath    string
	MetadataPath string

	ORTLibraryPath  string
	ONNXInputName   string
	ONNXProbaOutput string

	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// Load reads an optional .env file, then configuration from environment variables
// with sensible defaults. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv reads configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DataPath:        getEnv("DATA_PATH", "data/cleaned_restaurant_inspections.csv"),
		ModelPath:       getEnv("MODEL_PATH", "models/restaurant_grade_model.json"),
		MetadataPath:    getEnv("METADATA_PATH", "models/model_metadata.json"),
		ORTLibraryPath:  getEnv("ORT_LIBRARY_PATH", ""),
		ONNXInputName:   getEnv("ONNX_INPUT_NAME", "float_input"),
		ONNXProbaOutput: getEnv("ONNX_PROBA_OUTPUT", "probabilities"),
		CacheTTL:        getDurationEnv("CACHE_TTL_SECONDS", 120) * time.Second,
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesSQLite reports whether DataPath points at a SQLite database.
func (c *Config) UsesSQLite() bool {
	switch strings.ToLower(filepath.Ext(c.DataPath)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataPath == "" {
		errs = append(errs, errors.New("DATA_PATH is required"))
	}
	if c.ModelPath == "" {
		errs = append(errs, errors.New("MODEL_PATH is required"))
	}
	if c.MetadataPath == "" {
		errs = append(errs, errors.New("METADATA_PATH is required"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
