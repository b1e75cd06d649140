// Package redcache is the fast, disposable result cache tier. Every operation
// is best-effort: when Redis is unreachable the package demotes itself to a
// no-op for the process lifetime instead of failing callers.
package redcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/repolens/repolens/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const opTimeout = 5 * time.Second

var (
	mu            sync.Mutex
	defaultClient *redis.Client
	connectTried  bool
	log           = zap.NewNop()
)

// Init wires the cache into the fx lifecycle. Connection itself is lazy: the
// first Get/Set attempts it, and a failure disables the tier permanently.
func Init(lc fx.Lifecycle, l *zap.Logger) error {
	mu.Lock()
	log = l
	mu.Unlock()

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			if defaultClient != nil {
				l.Info("closing redis connection")
				return defaultClient.Close()
			}
			return nil
		},
	})

	return nil
}

// client returns the connected client, or nil when the tier is disabled.
func client() *redis.Client {
	mu.Lock()
	defer mu.Unlock()

	if connectTried {
		return defaultClient
	}
	connectTried = true

	opts, err := redis.ParseURL(config.Redis.Url())
	if err != nil {
		log.Warn("invalid redis url, cache disabled", zap.Error(err))
		return nil
	}
	opts.DialTimeout = opTimeout
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		log.Warn("failed to connect to redis, cache disabled", zap.Error(err))
		c.Close()
		return nil
	}

	log.Info("redis client initialized", zap.String("addr", opts.Addr))
	defaultClient = c
	return defaultClient
}

// Get returns the cached value for key, or false on a miss or any cache fault.
func Get(ctx context.Context, key string) ([]byte, bool) {
	c := client()
	if c == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

// Set stores val under key with the given TTL. Returns false on any fault.
func Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	c := client()
	if c == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Del removes key. Returns true only if an entry was deleted.
func Del(ctx context.Context, key string) bool {
	c := client()
	if c == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := c.Del(ctx, key).Result()
	if err != nil {
		log.Warn("redis del failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

// Cache adapts the package-level operations to a value collaborators can hold.
type Cache struct{}

func (Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	return Get(ctx, key)
}

func (Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	return Set(ctx, key, val, ttl)
}
