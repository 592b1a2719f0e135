package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATA_PATH", "MODEL_PATH", "METADATA_PATH", "CACHE_TTL_SECONDS", "HTTP_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/cleaned_restaurant_inspections.csv", cfg.DataPath)
	assert.Equal(t, "models/restaurant_grade_model.json", cfg.ModelPath)
	assert.Equal(t, "models/model_metadata.json", cfg.MetadataPath)
	assert.Equal(t, "float_input", cfg.ONNXInputName)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UsesSQLite())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATA_PATH", "data/restaurants.db")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.UsesSQLite())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "3000", HTTPTimeout: time.Second}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_PATH is required")
	assert.Contains(t, err.Error(), "MODEL_PATH is required")
	assert.Contains(t, err.Error(), "METADATA_PATH is required")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MODEL_PATH=models/grade.onnx\nLOG_LEVEL=debug\n"), 0o644))
	t.Chdir(dir)

	// t.Setenv restores the original value on cleanup; unset so .env can fill it.
	t.Setenv("MODEL_PATH", "")
	require.NoError(t, os.Unsetenv("MODEL_PATH"))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "models/grade.onnx", cfg.ModelPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
