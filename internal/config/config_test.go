package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
weather:
  api_key: file-key
  default_units: metric
  timeout: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "file-key", cfg.Weather.APIKey)
	assert.Equal(t, "metric", cfg.Weather.DefaultUnits)
	assert.Equal(t, 3, cfg.Weather.Timeout)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.Weather.BaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "weather:\n  api_key: file-key\n")
	t.Setenv("WEATHER_WEATHER_API_KEY", "env-key")
	t.Setenv("WEATHER_SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Weather.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_LegacyAPIKeyVariable(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv(LegacyAPIKeyEnv, "legacy-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.Weather.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "weather:\n  default_units: kelvin\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(NewDefaultConfig()))
}

func TestValidate_TimeoutBounds(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Weather.Timeout = 0
	assert.Error(t, Validate(cfg))
}

func TestSetGetConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
