package config

import (
	"os"
	"strconv"

	"goadf/domain/stationarity"
	"goadf/internal/errors"
	"goadf/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Test    TestConfig    `yaml:"test"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// TestConfig holds the default ADF test settings applied to requests that
// leave a field unset
type TestConfig struct {
	Regression    string  `yaml:"regression"`     // n, c, ct
	LagMethod     string  `yaml:"lag_method"`     // fixed, aic, bic, t-stat
	MaxLags       int     `yaml:"max_lags"`       // exact order for fixed
	Significance  float64 `yaml:"significance"`   // 0.01, 0.05, 0.10
	MissingPolicy string  `yaml:"missing_policy"` // drop, reject
}

// BatchConfig holds batch runner settings
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn (warning), error
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Test: TestConfig{
			Regression:    stationarity.Constant.String(),
			LagMethod:     stationarity.LagAIC.String(),
			MaxLags:       stationarity.DefaultMaxLags,
			Significance:  stationarity.DefaultSignificance.Value(),
			MissingPolicy: stationarity.MissingDrop.String(),
		},
		Batch: BatchConfig{
			MaxConcurrent: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// ADF_CONFIG_FILE (if any), then ADF_* environment variables, and validates it
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("ADF_CONFIG_FILE"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.ConfigInvalid("parse " + path + ": " + err.Error())
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Test.Regression = getEnvOrDefault("ADF_REGRESSION", c.Test.Regression)
	c.Test.LagMethod = getEnvOrDefault("ADF_LAG_METHOD", c.Test.LagMethod)
	c.Test.MaxLags = getEnvIntOrDefault("ADF_MAX_LAGS", c.Test.MaxLags)
	c.Test.Significance = getEnvFloatOrDefault("ADF_SIGNIFICANCE", c.Test.Significance)
	c.Test.MissingPolicy = getEnvOrDefault("ADF_MISSING_POLICY", c.Test.MissingPolicy)
	c.Batch.MaxConcurrent = getEnvIntOrDefault("ADF_MAX_CONCURRENT", c.Batch.MaxConcurrent)
	c.Logging.Level = getEnvOrDefault("ADF_LOG_LEVEL", c.Logging.Level)
}

// Validate checks that every setting parses into its domain type
func (c *Config) Validate() error {
	if _, err := c.Test.Stationarity(); err != nil {
		return errors.FromDomain(err)
	}
	if c.Batch.MaxConcurrent < 1 {
		return errors.ConfigInvalid("batch.max_concurrent must be at least 1")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errors.ConfigInvalid("logging.level: " + err.Error())
	}
	return nil
}

// Stationarity converts the settings into a test configuration
func (t TestConfig) Stationarity() (stationarity.Config, error) {
	reg, err := stationarity.ParseRegression(t.Regression)
	if err != nil {
		return stationarity.Config{}, err
	}
	method, err := stationarity.ParseLagMethod(t.LagMethod)
	if err != nil {
		return stationarity.Config{}, err
	}
	sig, err := stationarity.ParseSignificance(t.Significance)
	if err != nil {
		return stationarity.Config{}, err
	}
	missing, err := stationarity.ParseMissingPolicy(t.MissingPolicy)
	if err != nil {
		return stationarity.Config{}, err
	}

	cfg := stationarity.Config{
		Regression:   reg,
		Lag:          stationarity.LagPolicy{Method: method, Lags: t.MaxLags},
		Significance: sig,
		Missing:      missing,
	}
	return cfg, cfg.Validate()
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
