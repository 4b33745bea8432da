package ratelimit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether an identity may spend cost tokens right now.
type Limiter interface {
	Allow(ctx context.Context, identity string, cost float64) (bool, error)
}

// RedisLimiter keeps one bucket per identity in Redis. Sessions are owned by a
// single client at a time, so plain get/modify/set is enough here; we do not
// need a Lua script for strict atomicity.
type RedisLimiter struct {
	rdb    *redis.Client
	cfg    Config
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		cfg:    cfg,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string, cost float64) (bool, error) {
	key := l.prefix + identity

	var b Bucket
	s, err := l.rdb.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		// first sight: fresh bucket
	case err != nil:
		return false, err
	default:
		if uerr := json.Unmarshal([]byte(s), &b); uerr != nil {
			// corrupt state: reset rather than lock the identity out
			b = Bucket{}
		}
	}

	b, ok := Take(b, l.cfg, cost, l.now())

	raw, err := json.Marshal(b)
	if err != nil {
		return false, err
	}

	// expire idle buckets once they are guaranteed full again
	ttl := l.cfg.RefillInterval * time.Duration(l.cfg.Capacity/l.cfg.RefillTokens+1)
	if err := l.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return false, err
	}
	return ok, nil
}
