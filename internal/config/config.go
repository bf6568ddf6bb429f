package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, loaded from environment variables
type Config struct {
	Host string `env:"MAFIA_HOST"`
	Port int    `env:"MAFIA_PORT" envDefault:"8080"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"MAFIA_LOG_LEVEL" envDefault:"info"`

	// AdminTokenHash is the bcrypt hash admin tokens are verified
	// against. Empty disables admin sessions.
	AdminTokenHash string `env:"MAFIA_ADMIN_TOKEN_HASH"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"MAFIA_STORAGE_TYPE" envDefault:"memory"`

	// Redis settings, used when StorageType is redis
	RedisURL          string        `env:"MAFIA_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPoolSize     int           `env:"MAFIA_REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int           `env:"MAFIA_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RoomTTL           time.Duration `env:"MAFIA_ROOM_TTL" envDefault:"24h"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
