package cartstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/norun9/dressco-storefront/cart"
)

const (
	redisField       = "cart"
	redisPingTimeout = 5 * time.Second
	redisMaxBackoff  = 30 * time.Second
)

// RedisCartStore keeps each session's cart in a Redis hash.
type RedisCartStore struct {
	client   *redis.Client
	log      logrus.FieldLogger
	attempts int
	ttl      time.Duration
	backoff  func(attempt int) time.Duration
}

// RedisOptions tunes the Redis backend.
type RedisOptions struct {
	// ConnectAttempts bounds the pings made by Initialize.
	ConnectAttempts int
	// TTL expires idle carts; zero keeps them forever.
	TTL time.Duration
}

// NewRedisCartStore accepts "host:port" or a redis:// URL.
func NewRedisCartStore(redisAddr string, opts RedisOptions, log logrus.FieldLogger) *RedisCartStore {
	redisOpts, err := redis.ParseURL(redisAddr)
	if err != nil {
		// Not a redis:// URL, use it as a plain address.
		redisOpts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := redis.NewClient(redisOpts)
	client.AddHook(redisotel.NewTracingHook())

	if opts.ConnectAttempts <= 0 {
		opts.ConnectAttempts = 30
	}
	return &RedisCartStore{
		client:   client,
		log:      log,
		attempts: opts.ConnectAttempts,
		ttl:      opts.TTL,
		backoff:  backoff,
	}
}

// RedisKey is the hash key holding a session's cart.
func RedisKey(sessionID string) string {
	return cart.StorageKey + ":" + sessionID
}

// Initialize pings Redis until it answers, backing off exponentially.
func (r *RedisCartStore) Initialize(ctx context.Context) error {
	r.log.Info("RedisCartStore: initializing connection")

	for i := 0; i < r.attempts; i++ {
		if r.Ping(ctx) {
			r.log.WithField("attempt", i+1).Info("RedisCartStore initialized")
			return nil
		}

		wait := r.backoff(i)
		r.log.WithField("attempt", i+1).Warnf("RedisCartStore: ping failed, retrying in %v", wait)

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for redis")
		case <-time.After(wait):
		}
	}

	return errors.Errorf("failed to connect to redis after %d attempts", r.attempts)
}

// Load reads the slot, mapping a missing hash field to ErrSlotNotFound.
func (r *RedisCartStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	val, err := r.client.HGet(ctx, RedisKey(sessionID), redisField).Bytes()
	if err == redis.Nil {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis HGET")
	}
	return val, nil
}

// Save writes the slot and refreshes its expiry.
func (r *RedisCartStore) Save(ctx context.Context, sessionID string, data []byte) error {
	key := RedisKey(sessionID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, redisField, data)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "redis HSET")
	}
	return nil
}

// Delete removes the session's hash.
func (r *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, RedisKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, "redis DEL")
	}
	return nil
}

// Ping checks if Redis is alive.
func (r *RedisCartStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Debug("RedisCartStore: ping failed")
		return false
	}
	return true
}

func (r *RedisCartStore) Close() error {
	return r.client.Close()
}

// backoff doubles from one second and caps at redisMaxBackoff.
func backoff(attempt int) time.Duration {
	if attempt > 5 {
		return redisMaxBackoff
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > redisMaxBackoff {
		d = redisMaxBackoff
	}
	return d
}
