package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Catalog CatalogConfig
	Session SessionConfig
	Redis   RedisConfig
}

type APIConfig struct {
	// BaseURL is the versioned API root the client talks to.
	BaseURL  string        `env:"API_BASE_URL, default=http://localhost:8081/api/v1"`
	Timeout  time.Duration `env:"API_TIMEOUT,  default=10s"`
	Currency string        `env:"API_CURRENCY, default=USD"`
}

type CatalogConfig struct {
	// StaleAfter is the staleness window of the catalog cache.
	StaleAfter     time.Duration `env:"CATALOG_STALE_AFTER,     default=5m"`
	PageSize       int           `env:"CATALOG_PAGE_SIZE,       default=9"`
	RefreshWorkers int           `env:"CATALOG_REFRESH_WORKERS, default=4"`
}

type SessionConfig struct {
	// StoragePath is where the credential document lives.
	StoragePath string `env:"SESSION_STORAGE_PATH, default=.storefront/session.json"`
}

type RedisConfig struct {
	// Enabled switches the catalog cache from in-process to Redis.
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
	// CacheTTL bounds the lifetime of catalog entries in Redis; it should
	// comfortably exceed the staleness window.
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL, default=30m"`
}

// Load reads configuration from the environment, after sourcing an optional
// .env file. Missing .env is not an error.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
