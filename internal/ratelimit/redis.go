package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisGate enforces the trade window across instances with a SET NX key
// carrying a PX TTL equal to the window.
type RedisGate struct {
	client *redis.Client
	window time.Duration
	prefix string
}

func NewRedisGate(client *redis.Client, window time.Duration) *RedisGate {
	return &RedisGate{
		client: client,
		window: window,
		prefix: "tradegate",
	}
}

func (g *RedisGate) Allow(ctx context.Context, userID string) error {
	key := g.prefix + ":" + userID
	ok, err := g.client.SetNX(ctx, key, time.Now().UnixMilli(), g.window).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		// the gate is best-effort; a broken redis must not block trading
		logger.Warn("trade gate redis error, admitting request", "error", err)
		return nil
	}
	if !ok {
		ttl, _ := g.client.PTTL(ctx, key).Result()
		if ttl < 0 {
			ttl = g.window
		}
		return apperrors.NewRateLimited(
			"trade window active, retry in " + ttl.String())
	}
	return nil
}
