package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration values.
type Config struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	DatabaseDSN   string `envconfig:"DATABASE_DSN" default:"data/ledger.db"`
	SeedInventory string `envconfig:"SEED_INVENTORY"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AuthEnabled    bool          `envconfig:"AUTH_ENABLED" default:"false"`
	Secret         string        `envconfig:"SECRET" default:"dev_secret"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LoginRateLimit int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.AuthEnabled && cfg.Secret == "" {
		return nil, errors.New("config: SECRET must be set when AUTH_ENABLED is true")
	}
	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}
	return &cfg, nil
}
