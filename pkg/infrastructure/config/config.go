package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the config file
const (
	EnvDatabaseURL     = "PICKING_DATABASE_URL"
	EnvDatabaseDriver  = "PICKING_DATABASE_DRIVER"
	EnvRedisAddr       = "PICKING_REDIS_ADDR"
	EnvBatchManagement = "PICKING_BATCH_MANAGEMENT"
	EnvLogLevel        = "PICKING_LOG_LEVEL"
)

// Config holds runtime settings of the picking tools
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Features FeatureConfig  `yaml:"features"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	URL           string `yaml:"url"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	KeyPrefix string `yaml:"key_prefix"`
}

// FeatureConfig holds static feature switches used when no redis is configured
type FeatureConfig struct {
	BatchManagement bool `yaml:"batch_management"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:        "postgres",
			MigrationsDir: "pkg/infrastructure/database/migrations",
		},
		Redis: RedisConfig{
			KeyPrefix: "picking:feature:",
		},
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// Load reads an optional .env file, the YAML file at path (skipped when
// empty) and finally applies environment overrides
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if value, ok := os.LookupEnv(EnvDatabaseURL); ok {
		cfg.Database.URL = value
	}
	if value, ok := os.LookupEnv(EnvDatabaseDriver); ok {
		cfg.Database.Driver = value
	}
	if value, ok := os.LookupEnv(EnvRedisAddr); ok {
		cfg.Redis.Addr = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = value
	}
	if value, ok := os.LookupEnv(EnvBatchManagement); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvBatchManagement, value)
		}
		cfg.Features.BatchManagement = enabled
	}
	return nil
}

// Validate rejects unsupported drivers
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "postgres", "mysql":
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q (expected postgres or mysql)", c.Database.Driver)
	}
}
