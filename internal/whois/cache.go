package whois

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/logging"
)

// Cache stores raw lookup results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at rawURL.
func NewRedisCache(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedChecker serves repeated lookups from a Cache. Cache failures are
// logged and fall through to the wrapped Checker.
type CachedChecker struct {
	next   Checker
	cache  Cache
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCachedChecker(next Checker, cache Cache, ttl time.Duration, logger logrus.FieldLogger) *CachedChecker {
	return &CachedChecker{next: next, cache: cache, ttl: ttl, logger: logging.OrDiscard(logger)}
}

func cacheKey(name string) string { return "whois:" + name }

func (c *CachedChecker) Check(ctx context.Context, name string) (Result, error) {
	key := cacheKey(name)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WithError(err).WithField("domain", name).Warn("whois cache: get")
	} else if ok {
		var res Result
		if err := json.Unmarshal(raw, &res); err == nil {
			return res, nil
		}
	}

	res, err := c.next.Check(ctx, name)
	if err != nil {
		return Result{}, err
	}

	raw, err := json.Marshal(res)
	if err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.WithError(err).WithField("domain", name).Warn("whois cache: set")
		}
	}
	return res, nil
}
