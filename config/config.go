package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, loaded from the environment.
type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	MongoURI           string        `env:"MONGO_URI"`
	MongoDatabase      string        `env:"MONGO_DB" envDefault:"amberreview"`
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	RevealDelay        time.Duration `env:"REVEAL_DELAY" envDefault:"6s"`
	RoomTTL            time.Duration `env:"ROOM_TTL" envDefault:"6h"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
