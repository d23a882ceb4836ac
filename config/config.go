// Package config loads storefront settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Cart store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds all storefront configuration.
type Config struct {
	// HTTP API port
	Port string `yaml:"port"`
	// gRPC health port
	GRPCPort string `yaml:"grpc_port"`

	CartStore CartStore `yaml:"cart_store"`
	Sessions  Sessions  `yaml:"sessions"`
	Catalog   Catalog   `yaml:"catalog"`
	Admin     Admin     `yaml:"admin"`
	Telemetry Telemetry `yaml:"telemetry"`
	Logging   Logging   `yaml:"logging"`
}

// CartStore selects where cart slots are persisted.
type CartStore struct {
	Backend         string        `yaml:"backend"` // memory, file, redis, sqlite
	Dir             string        `yaml:"dir"`
	SQLitePath      string        `yaml:"sqlite_path"`
	RedisAddr       string        `yaml:"redis_addr"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	TTL             time.Duration `yaml:"ttl"`
}

// Sessions bounds the in-process cart cache.
type Sessions struct {
	MaxSessions  int           `yaml:"max_sessions"`
	CookieMaxAge time.Duration `yaml:"cookie_max_age"`
}

// Catalog points at the product seed file. Empty uses the built-in seed.
type Catalog struct {
	Path string `yaml:"path"`
}

// Admin holds the dashboard credentials.
type Admin struct {
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	SessionMaxAge time.Duration `yaml:"session_max_age"`
}

// Telemetry configures OpenTelemetry export.
type Telemetry struct {
	ServiceName string `yaml:"service_name"`
	Exporter    string `yaml:"exporter"` // otlp, stdout, none
	Endpoint    string `yaml:"endpoint"`
}

// Logging configures logrus.
type Logging struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:     "8080",
		GRPCPort: "7070",
		CartStore: CartStore{
			Backend:         BackendMemory,
			Dir:             "data/carts",
			SQLitePath:      "data/carts.db",
			ConnectAttempts: 30,
		},
		Sessions: Sessions{
			MaxSessions:  10000,
			CookieMaxAge: 48 * time.Hour,
		},
		Admin: Admin{
			Username:      "admin",
			SessionMaxAge: 24 * time.Hour,
		},
		Telemetry: Telemetry{
			ServiceName: "storefront",
			Exporter:    "none",
			Endpoint:    "localhost:4317",
		},
		Logging: Logging{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads path (if not empty) over the defaults, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("GRPC_PORT", &c.GRPCPort)
	str("CART_STORE", &c.CartStore.Backend)
	str("CART_DIR", &c.CartStore.Dir)
	str("SQLITE_PATH", &c.CartStore.SQLitePath)
	str("REDIS_ADDR", &c.CartStore.RedisAddr)
	str("CATALOG_PATH", &c.Catalog.Path)
	str("ADMIN_USER", &c.Admin.Username)
	str("ADMIN_PASSWORD", &c.Admin.Password)
	str("OTEL_SERVICE_NAME", &c.Telemetry.ServiceName)
	str("OTEL_EXPORTER", &c.Telemetry.Exporter)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Telemetry.Endpoint)
	str("LOG_LEVEL", &c.Logging.Level)

	if v, ok := lookup("MAX_SESSIONS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "MAX_SESSIONS")
		}
		c.Sessions.MaxSessions = n
	}
	if v, ok := lookup("CART_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "CART_TTL")
		}
		c.CartStore.TTL = d
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.CartStore.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		return errors.Errorf("unknown cart store backend %q", c.CartStore.Backend)
	}
	if c.CartStore.Backend == BackendRedis && c.CartStore.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required for the redis backend")
	}
	if c.Sessions.MaxSessions <= 0 {
		return errors.New("max_sessions must be positive")
	}
	switch c.Telemetry.Exporter {
	case "otlp", "stdout", "none":
	default:
		return errors.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}
	return nil
}
