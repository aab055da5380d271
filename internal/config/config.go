// Package config loads and validates coordinator configuration from file,
// environment variables, and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the commit coordinator process configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Log         LogConfig         `mapstructure:"log"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

// AppConfig holds process-level identification.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LogConfig holds logging-related configuration, mirroring pkg/logger.Config.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// CoordinatorConfig holds the core coordinator's tunables.
type CoordinatorConfig struct {
	// MaxUnbackfilledCommits bounds the in-memory window per table (spec's
	// MAX_UNBACKFILLED).
	MaxUnbackfilledCommits int `mapstructure:"max_unbackfilled_commits"`

	// SeedBuilders lists registry builder names that must be registered at
	// startup (the implementations themselves are wired by the caller;
	// this only records which names are expected to be present).
	SeedBuilders []string `mapstructure:"seed_builders"`
}

// MetricsConfig controls the Prometheus registry exposed by pkg/metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// HTTPConfig controls the optional HTTP front-end in internal/transport/httpapi.
type HTTPConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	Port            int  `mapstructure:"port"`
	RateLimitPerSec int  `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int  `mapstructure:"rate_limit_burst"`
}

// LoadConfig loads configuration from an optional YAML file, environment
// variables, and defaults, in that precedence order (env overrides file,
// file overrides defaults).
func LoadConfig(configPath string) (*Config, error) {
	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "commitcoord")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.filename", "")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)

	// Default size of the unbackfilled commit window each table may hold.
	viper.SetDefault("coordinator.max_unbackfilled_commits", 10)
	viper.SetDefault("coordinator.seed_builders", []string{})

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.namespace", "commitcoord")

	viper.SetDefault("http.enabled", false)
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.rate_limit_per_sec", 50)
	viper.SetDefault("http.rate_limit_burst", 100)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	if c.Log.Level == "" {
		return fmt.Errorf("log level cannot be empty")
	}

	if c.Coordinator.MaxUnbackfilledCommits <= 0 {
		return fmt.Errorf("coordinator.max_unbackfilled_commits must be positive, got %d", c.Coordinator.MaxUnbackfilledCommits)
	}

	if c.HTTP.Enabled {
		if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
			return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
		}
		if c.HTTP.RateLimitPerSec <= 0 {
			return fmt.Errorf("http.rate_limit_per_sec must be positive, got %d", c.HTTP.RateLimitPerSec)
		}
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebug returns true if debug mode is enabled.
func (c *Config) IsDebug() bool {
	return c.App.Debug || c.IsDevelopment()
}
