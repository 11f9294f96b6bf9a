// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bythepixel/propixel/internal/config"
)

// Redis carries rate-limit buckets and revoked access token ids. Entity
// data is never cached in it.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	r := &Redis{Client: redis.NewClient(opts)}
	if err := r.Ping(ctx); err != nil {
		_ = r.Close() //nolint:errcheck // the ping error is the one to report
		return nil, err
	}

	return r, nil
}

// redisOptions layers pool settings over the URL. A zero pool size keeps
// go-redis' default of ten per CPU.
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 10 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute
	opts.ClientName = "propixel"

	return opts, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return pingWithin(ctx, "redis", func(ctx context.Context) error {
		return r.Client.Ping(ctx).Err()
	})
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
