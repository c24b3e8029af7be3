package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"checkintracker/internal/domain"
)

const (
	defaultRedisNamespace = "checkintracker:"
	redisScanBatch        = 100
)

// Redis is a cache backed by a Redis server. Expiry is delegated to Redis key TTLs.
type Redis struct {
	client    *redis.Client
	namespace string
}

var _ domain.Cache = (*Redis)(nil)

// NewRedis returns a Redis cache whose keys are stored under namespace.
// An empty namespace uses "checkintracker:".
func NewRedis(client *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = defaultRedisNamespace
	}
	return &Redis{client: client, namespace: namespace}
}

// Connect dials addr and verifies the connection with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 10,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, r.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cache entry %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.namespace+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry %q: %w", key, err)
	}
	return nil
}

// Invalidate deletes every key starting with keyPrefix, scanning in batches.
func (r *Redis) Invalidate(ctx context.Context, keyPrefix string) error {
	var cursor uint64
	match := r.namespace + keyPrefix + "*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, match, redisScanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys %q: %w", keyPrefix, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys %q: %w", keyPrefix, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
