// Package config provides configuration for the backend, loaded from
// defaults, an optional YAML file, and environment variables, in that order
// of increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Timeline configuration
	Timezone string `yaml:"timezone"`

	// File tracking
	MonitoredDir string `yaml:"monitored_dir"`

	// Intelligence gateway
	GatewayBaseURL  string        `yaml:"gateway_base_url"`
	GatewayTimeout  time.Duration `yaml:"gateway_timeout"`
	GatewayCacheTTL time.Duration `yaml:"gateway_cache_ttl"`

	// Persistence
	DatabasePath string `yaml:"database_path"`

	// Logging and features
	LogLevel      string `yaml:"log_level"`
	EnableCORS    bool   `yaml:"enable_cors"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

// LoadConfig loads configuration from the optional config file and the
// environment. Environment variables win over file values.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:   ":8000",
		Environment:     "development",
		Timezone:        "UTC",
		MonitoredDir:    "./monitored",
		GatewayBaseURL:  "http://localhost:9000",
		GatewayTimeout:  10 * time.Second,
		GatewayCacheTTL: 5 * time.Minute,
		DatabasePath:    "./lifeline.db",
		LogLevel:        "info",
		EnableCORS:      true,
		EnableMetrics:   true,
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvironment(cfg *Config) {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.Timezone = getEnv("TRACKER_TIMEZONE", cfg.Timezone)
	cfg.MonitoredDir = getEnv("MONITORED_FOLDER", cfg.MonitoredDir)
	cfg.GatewayBaseURL = getEnv("GATEWAY_BASE_URL", cfg.GatewayBaseURL)
	cfg.GatewayTimeout = getEnvDuration("GATEWAY_TIMEOUT", cfg.GatewayTimeout)
	cfg.GatewayCacheTTL = getEnvDuration("GATEWAY_CACHE_TTL", cfg.GatewayCacheTTL)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if c.GatewayBaseURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL is required")
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TRACKER_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
