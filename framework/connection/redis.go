package connection

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doitintl/hello/gcp-footprint/logger"
)

const redisPingTimeout = 5 * time.Second

type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient connects to the session cache. An empty address or an unreachable server
// leaves the cache disabled rather than failing startup.
func NewRedisClient(ctx context.Context, log *logger.Logging, addr string) (*RedisClient, error) {
	l := log.Logger(ctx)

	if addr == "" {
		l.Info("REDIS_ADDR not set, session cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: redisPingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		l.Warningf("redis ping %s: %s, session cache disabled", addr, err)
		_ = rdb.Close()

		return nil, nil
	}

	return &RedisClient{rdb}, nil
}

// Redis returns the redis client, or nil when the cache is disabled.
func (c *RedisClient) Redis() *redis.Client {
	if c == nil {
		return nil
	}

	return c.rdb
}

func (c *RedisClient) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}

	return c.rdb.Close()
}
