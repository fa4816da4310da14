// internal/config/config.go
//
// Process configuration. A .env file is loaded first (development
// convenience), then the environment is parsed into a typed struct.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads from the environment.
type Config struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"*"`

	// RoomIdleTimeout is how long a room may sit without a mutating
	// action before the reaper removes it.
	RoomIdleTimeout time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"2m"`
	// ReaperInterval is how often the idle sweep runs.
	ReaperInterval time.Duration `env:"REAPER_INTERVAL" envDefault:"30s"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
