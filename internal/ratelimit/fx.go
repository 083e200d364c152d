package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/northstar/internal/config"
	"go.uber.org/fx"
)

// NewRedisClient returns nil when REDIS_ADDR is unset; the limiter and lock
// degrade to no-ops in that case.
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewTokenBucket),
	fx.Provide(NewLocker),
)
