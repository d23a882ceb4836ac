package cartstore

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/norun9/dressco-storefront/config"
)

// New picks the backend named by cfg.Backend.
func New(cfg config.CartStore, log logrus.FieldLogger) (ICartStore, error) {
	log = log.WithField("backend", cfg.Backend)
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewLocalCartStore(log), nil
	case config.BackendFile:
		return NewFileCartStore(cfg.Dir, log), nil
	case config.BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("redis backend requires REDIS_ADDR")
		}
		addr := cfg.RedisAddr
		if !strings.Contains(addr, ":") {
			addr += ":6379"
		}
		return NewRedisCartStore(addr, RedisOptions{
			ConnectAttempts: cfg.ConnectAttempts,
			TTL:             cfg.TTL,
		}, log), nil
	case config.BackendSQLite:
		return NewSQLiteCartStore(cfg.SQLitePath, log), nil
	default:
		return nil, errors.Errorf("unknown cart store backend %q", cfg.Backend)
	}
}
