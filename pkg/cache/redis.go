package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 500 * time.Millisecond

// RedisCache - общий кэш заказов для нескольких реплик сервиса.
// Ошибки Redis считаются промахами.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

func NewRedisCache(logger *slog.Logger, addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger.With(slog.String("cache", driverRedis)),
		prefix: "order-service:order",
		ttl:    ttl,
	}
}

func (c *RedisCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get from cache", slog.String("key", key), slog.Any("error", err))
		}
		cacheMisses.WithLabelValues(driverRedis).Inc()
		return nil, false
	}
	cacheHits.WithLabelValues(driverRedis).Inc()
	return data, true
}

func (c *RedisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to set cache", slog.String("key", key), slog.Any("error", err))
	}
}

func (c *RedisCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("failed to delete from cache", slog.String("key", key), slog.Any("error", err))
	}
}

// Start проверяет соединение с redis.
func (c *RedisCache) Start(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
