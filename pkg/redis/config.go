package redis

import "time"

// Config holds Redis connection parameters, populated from the environment.
type Config struct {
	URL string `env:"REDIS_URL" yaml:"url"`

	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10" yaml:"pool_size"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2" yaml:"min_idle_conns"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"10m" yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"30m" yaml:"conn_max_lifetime"`

	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s" yaml:"read_timeout"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s" yaml:"write_timeout"`

	// Startup retries; attempt n waits n*RetryInterval.
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s" yaml:"retry_interval"`
}
