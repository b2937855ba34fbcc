package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, resolved once from the
// environment at startup.
type Config struct {
	// Database connection. DatabaseURL wins when set; otherwise the
	// discrete fields below are assembled into a DSN.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      int    `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`

	// Pool sizing and lifecycle.
	PoolSize    int           `env:"DB_POOL_SIZE" envDefault:"5"`
	MaxOverflow int           `env:"DB_MAX_OVERFLOW" envDefault:"10"`
	PoolTimeout time.Duration `env:"DB_POOL_TIMEOUT" envDefault:"30s"`
	PoolRecycle time.Duration `env:"DB_POOL_RECYCLE" envDefault:"1h"`
	EchoSQL     bool          `env:"ECHO_SQL" envDefault:"false"`

	// Web server.
	Port        int      `env:"PORT" envDefault:"8000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ConfigError reports an unresolvable or contradictory connection
// configuration. It is fatal at startup and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// DSN resolves the PostgreSQL connection string. DATABASE_URL takes
// precedence; otherwise all of host, name, user and password must be set.
// A generic "postgres://" scheme is normalized to "postgresql://".
func (c Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return normalizeScheme(c.DatabaseURL), nil
	}

	if c.DBHost == "" || c.DBName == "" || c.DBUser == "" || c.DBPassword == "" {
		return "", &ConfigError{
			Reason: "DATABASE_URL not set and DB_HOST/DB_NAME/DB_USER/DB_PASSWORD incomplete",
		}
	}

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String(), nil
}

func normalizeScheme(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}
