package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/lost-in-space/pkg/world"
	"github.com/redis/go-redis/v9"
)

const worldKeyPrefix = "world:"

// RedisCache is a read-through cache of world definitions in Redis, in front
// of another WorldStore. Redis errors are logged and the inner store answers.
type RedisCache struct {
	client *redis.Client
	inner  WorldStore
	ttl    time.Duration
	logger *slog.Logger
}

var (
	_ WorldStore  = (*RedisCache)(nil)
	_ Invalidator = (*RedisCache)(nil)
)

// NewRedisCache creates a Redis-backed cache in front of inner.
func NewRedisCache(redisURL string, inner WorldStore, ttl time.Duration, logger *slog.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return NewRedisCacheWithClient(rdb, inner, ttl, logger)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, inner WorldStore, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		logger: logger,
	}
}

// Health and lifecycle methods

func (r *RedisCache) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return r.inner.Ping(ctx)
}

// Close shuts down Redis and the inner store, even if one of them fails.
func (r *RedisCache) Close() error {
	var errs []error
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
	} else {
		r.logger.Info("Redis connection closed")
	}
	if err := r.inner.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisCache) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.client.Ping(ctx).Err(); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// World operations

func (r *RedisCache) ListWorlds(ctx context.Context) (map[string]string, error) {
	return r.inner.ListWorlds(ctx)
}

func (r *RedisCache) GetDefinition(ctx context.Context, filename string) (*world.Definition, error) {
	key := worldKeyPrefix + filename

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var def world.Definition
		if err := json.Unmarshal(data, &def); err == nil {
			r.logger.Debug("World cache hit", "key", key)
			return &def, nil
		}
		r.logger.Warn("Discarding unreadable cached world", "key", key, "error", err)
	case errors.Is(err, redis.Nil):
		r.logger.Debug("World cache miss", "key", key)
	default:
		r.logger.Warn("Redis GET failed, falling back to store", "key", key, "error", err)
	}

	def, err := r.inner.GetDefinition(ctx, filename)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal world: %w", err)
	}
	if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis SET failed", "key", key, "error", err)
	}
	return def, nil
}

// Invalidate drops a cached world here and in the inner store, so the next
// read comes from disk.
func (r *RedisCache) Invalidate(ctx context.Context, filename string) error {
	var errs []error
	if err := r.client.Del(ctx, worldKeyPrefix+filename).Err(); err != nil {
		errs = append(errs, fmt.Errorf("redis del failed: %w", err))
	}
	if inv, ok := r.inner.(Invalidator); ok {
		if err := inv.Invalidate(ctx, filename); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
