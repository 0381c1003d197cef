package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/logging"
)

const redisPingTimeout = 2 * time.Second

// RedisCacheService shares cached facets between server replicas. Values
// are stored as JSON under prefix.
type RedisCacheService struct {
	client *redis.Client
	prefix string
}

var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisClient builds a pooled client from config
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	logging.Info("Initializing Redis client", "addr", cfg.Addr(), "db", cfg.DB)

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// NewRedisCacheService pings client and wraps it. An unreachable server is
// an error so the caller can fall back to the in-process cache.
func NewRedisCacheService(ctx context.Context, client *redis.Client, prefix string) (*RedisCacheService, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheService{client: client, prefix: prefix}, nil
}

func (r *RedisCacheService) key(k string) string {
	return r.prefix + k
}

func (r *RedisCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Redis cache: failed to marshal value", "key", key, "error", err)
		return
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		logging.Warn("Redis cache: failed to set key", "key", key, "error", err)
	}
}

// Get returns the stored JSON decoded into generic maps and slices
func (r *RedisCacheService) Get(ctx context.Context, key string) (interface{}, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis cache: failed to get key", "key", key, "error", err)
		return nil, false
	}

	var result interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		logging.Warn("Redis cache: dropping undecodable value", "key", key, "error", err)
		r.Delete(ctx, key)
		return nil, false
	}
	return result, true
}

func (r *RedisCacheService) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		logging.Warn("Redis cache: failed to delete key", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheService) Name() string { return "redis" }

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
