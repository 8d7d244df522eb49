package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the organization module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"org_master_db"`

	// Fixed-size preview returned with an organization view; no real
	// pagination exists beyond this cap.
	PreviewLimit int `env:"PREVIEW_LIMIT" envDefault:"10"`

	// Redis cache (optional)
	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"false"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load organization configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("mongodb_uri is required")
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "org_master_db"
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 10
	}

	return cfg, nil
}

// RedisAddr returns the host:port address of the Redis cache.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
