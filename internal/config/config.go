package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Host           string   `mapstructure:"host"`
	ReadTimeout    int      `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout   int      `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout    int      `mapstructure:"idle_timeout" validate:"min=0"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WeatherConfig describes the single upstream current-conditions provider.
// Timeout is in seconds and bounds one upstream request; there are no retries.
type WeatherConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	APIKey       string `mapstructure:"api_key"`
	Timeout      int    `mapstructure:"timeout" validate:"min=1,max=60"`
	DefaultUnits string `mapstructure:"default_units" validate:"oneof=standard metric imperial"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    60,
			AllowedOrigins: []string{"*"},
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.openweathermap.org/data/2.5",
			APIKey:       "",
			Timeout:      10,
			DefaultUnits: "imperial",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
