package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the replenishment pipeline
type Config struct {
	Data     DataConfig
	Pipeline PipelineConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// DataConfig contains input feed and lake locations
type DataConfig struct {
	InputDir      string
	LakeDir       string
	OrdersFile    string
	StockFile     string
	SnapshotsFile string
}

// PipelineConfig contains run-level tuning
type PipelineConfig struct {
	MalformedThreshold float64
}

// CatalogConfig selects where reference data comes from. Source is "csv"
// (files under InputDir) or "postgres".
type CatalogConfig struct {
	Source   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// RedisConfig contains the snapshot-store connection. Store is "memory" or
// "redis".
type RedisConfig struct {
	Store    string
	Host     string
	Port     string
	Password string
	DB       int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// A missing .env file is fine; values come from the process environment
	_ = godotenv.Load()

	config := &Config{
		Data: DataConfig{
			InputDir:      getEnv("PROCURE_INPUT_DIR", "./data/input"),
			LakeDir:       getEnv("PROCURE_LAKE_DIR", "./data/lake"),
			OrdersFile:    getEnv("PROCURE_ORDERS_FILE", "orders.csv"),
			StockFile:     getEnv("PROCURE_STOCK_FILE", "stock.json"),
			SnapshotsFile: getEnv("PROCURE_SNAPSHOTS_FILE", "inventory_snapshots.json"),
		},
		Pipeline: PipelineConfig{
			MalformedThreshold: getEnvAsFloat("PROCURE_MALFORMED_THRESHOLD", 0.05),
		},
		Catalog: CatalogConfig{
			Source:   getEnv("CATALOG_SOURCE", "csv"),
			Host:     getEnv("CATALOG_DB_HOST", "localhost"),
			Port:     getEnv("CATALOG_DB_PORT", "5432"),
			Name:     getEnv("CATALOG_DB_NAME", "procurement"),
			User:     getEnv("CATALOG_DB_USER", "procurement"),
			Password: getEnv("CATALOG_DB_PASSWORD", ""),
			SSLMode:  getEnv("CATALOG_DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Store:    getEnv("SNAPSHOT_STORE", "memory"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.InputDir == "" {
		return fmt.Errorf("PROCURE_INPUT_DIR is required")
	}
	if c.Data.LakeDir == "" {
		return fmt.Errorf("PROCURE_LAKE_DIR is required")
	}
	if c.Pipeline.MalformedThreshold < 0 || c.Pipeline.MalformedThreshold > 1 {
		return fmt.Errorf("PROCURE_MALFORMED_THRESHOLD must be between 0 and 1")
	}
	switch c.Catalog.Source {
	case "csv", "postgres":
	default:
		return fmt.Errorf("CATALOG_SOURCE must be csv or postgres, got %q", c.Catalog.Source)
	}
	switch c.Redis.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("SNAPSHOT_STORE must be memory or redis, got %q", c.Redis.Store)
	}
	return nil
}

// GetCatalogDSN returns the catalog database connection string
func (c *Config) GetCatalogDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Catalog.Host,
		c.Catalog.Port,
		c.Catalog.User,
		c.Catalog.Password,
		c.Catalog.Name,
		c.Catalog.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
