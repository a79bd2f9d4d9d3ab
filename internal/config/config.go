package config

import (
	"os"
	"strconv"

	"goab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// EngineConfig holds the statistical defaults handed to the engine when a
// caller does not override them.
type EngineConfig struct {
	Alpha         float64
	Power         float64
	ExpectedSplit float64
	BayesSamples  int
	BayesSeed     uint64
}

// DataConfig holds dataset paths
type DataConfig struct {
	UploadDir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Engine: EngineConfig{
			Alpha:         getEnvFloatOrDefault("ENGINE_ALPHA", 0.05),
			Power:         getEnvFloatOrDefault("ENGINE_POWER", 0.80),
			ExpectedSplit: getEnvFloatOrDefault("ENGINE_EXPECTED_SPLIT", 0.50),
			BayesSamples:  getEnvIntOrDefault("ENGINE_BAYES_SAMPLES", 100000),
			BayesSeed:     uint64(getEnvIntOrDefault("ENGINE_BAYES_SEED", 42)),
		},
		Data: DataConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "uploads"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Engine.Alpha <= 0 || cfg.Engine.Alpha >= 1 {
		return errors.ConfigInvalid("ENGINE_ALPHA must be in (0,1)")
	}
	if cfg.Engine.Power <= 0 || cfg.Engine.Power >= 1 {
		return errors.ConfigInvalid("ENGINE_POWER must be in (0,1)")
	}
	if cfg.Engine.ExpectedSplit <= 0 || cfg.Engine.ExpectedSplit >= 1 {
		return errors.ConfigInvalid("ENGINE_EXPECTED_SPLIT must be in (0,1)")
	}
	if cfg.Engine.BayesSamples <= 0 {
		return errors.ConfigInvalid("ENGINE_BAYES_SAMPLES must be positive")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
