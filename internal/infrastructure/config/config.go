package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DefaultLanguage is the locale of a session that never picked one.
	DefaultLanguage string `env:"DEFAULT_LANGUAGE,  default=en"`
	RowsPerPage     int    `env:"ROWS_PER_PAGE,     default=10"`
	CatalogPageSize int    `env:"CATALOG_PAGE_SIZE, default=16"`

	Session SessionConfig
	Backend BackendConfig
	Cache   CacheConfig
	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret       string `env:"SESSION_SECRET, required"`
	CookieSecure bool   `env:"SESSION_COOKIE_SECURE, default=false"`
	// IdleTTL expires session slots nobody touched for that long.
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL, default=720h"`
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, required"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=180s"`
	RPS     float64       `env:"BACKEND_RPS,      default=50"`
	Burst   int           `env:"BACKEND_BURST,    default=100"`
}

type CacheConfig struct {
	StaleTime           time.Duration `env:"CACHE_STALE_TIME,     default=2m"`
	InvalidationWorkers int           `env:"INVALIDATION_WORKERS, default=4"`
}

type AuthConfig struct {
	ResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN, default=30s"`
	FlowTTL        time.Duration `env:"FLOW_TTL,            default=15m"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=storefront"`
	OpTimeout   time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether the gateway runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// Variables from a .env file in the working directory are loaded first but
// never override the process environment.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored.
func LoadFrom(ctx context.Context, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET must not be empty")
	}
	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("BACKEND_BASE_URL must not be empty")
	}
	if cfg.Session.IdleTTL <= 0 {
		return nil, errors.New("SESSION_IDLE_TTL must be positive")
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, errors.New("BACKEND_TIMEOUT must be positive")
	}
	return &cfg, nil
}
