package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces credential keys in a shared Redis.
const DefaultRedisPrefix = "coachdesk:credential:"

// RedisKV implements KV on Redis, for devices that share one session.
type RedisKV struct {
	client *redis.Client
	prefix string
}

var _ KV = (*RedisKV)(nil)

// NewRedisKV wraps an existing client. An empty prefix uses DefaultRedisPrefix.
func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisKV{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL into a client with short timeouts.
// No connection is made until the first command.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = 1
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.PoolTimeout = 3 * time.Second
	return redis.NewClient(opt), nil
}

func (r *RedisKV) key(k string) string {
	return r.prefix + k
}

// Get returns the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores key without expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. DEL of a missing key is a no-op in Redis.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
