package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config keeps runtime settings for the API server.
type Config struct {
	Env         string        `env:"APP_ENV" env-default:"local"`
	Port        string        `env:"PORT" env-default:"5000"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	CORSOrigins []string      `env:"CORS_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
	LogLevel    string        `env:"LOG_LEVEL" env-default:"info"`

	Database DatabaseConfig
	Redis    RedisConfig
	Digest   DigestConfig
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"sqlite"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" env-default:"smart_tasks"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	StatsTTL time.Duration `env:"STATS_CACHE_TTL" env-default:"5m"`
}

type DigestConfig struct {
	Time           string `env:"DIGEST_TIME"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return cfg, fmt.Errorf("TOKEN_TTL must be positive")
	}

	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return cfg, fmt.Errorf("unknown APP_ENV %q", cfg.Env)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case DriverSQLite:
		if cfg.Database.URL == "" {
			cfg.Database.URL = "smart_tasks.db"
		}
	case DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver. For postgres an
// explicit DATABASE_URL wins over the individual DB_* parameters.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" || c.Driver != DriverPostgres {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
