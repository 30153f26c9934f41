package main

import (
	"time"

	"github.com/dmitrymomot/servo"
	"github.com/dmitrymomot/servo/pkg/config"
	"github.com/dmitrymomot/servo/pkg/db"
	"github.com/dmitrymomot/servo/pkg/logger"
	"github.com/dmitrymomot/servo/pkg/redis"
)

// Config is the service configuration. Values come from the YAML file given
// with --config, then .env and the environment.
type Config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080" yaml:"address"`
	Development     bool          `env:"DEVELOPMENT" yaml:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s" yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" yaml:"request_timeout"`

	// SessionStore is memory, redis or postgres.
	SessionStore string `env:"SESSION_STORE" envDefault:"postgres" yaml:"session_store"`

	// UpstreamURL, when set, is probed by /monitor/status.
	UpstreamURL string `env:"UPSTREAM_URL" yaml:"upstream_url"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`

	Log     logger.Config       `yaml:"log"`
	DB      db.Config           `yaml:"db"`
	Redis   redis.Config        `yaml:"redis"`
	Session servo.SessionConfig `yaml:"session"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	opts := []config.Option{}
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
