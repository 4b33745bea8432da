package ratelimit

import "time"

// Config describes a token bucket: Capacity tokens max, RefillTokens added
// every RefillInterval. Matches the generation endpoint budget (capacity 10,
// 5 tokens per 5s, 5 tokens per request).
type Config struct {
	Capacity       float64
	RefillTokens   float64
	RefillInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Capacity:       10,
		RefillTokens:   5,
		RefillInterval: 5 * time.Second,
	}
}

// Bucket is the persisted bucket state. UpdatedAtMS is unix milliseconds of
// the last refill so the math stays serializable as plain JSON.
type Bucket struct {
	Tokens      float64 `json:"tokens"`
	UpdatedAtMS int64   `json:"updated_at_ms"`
}

// Take refills the bucket up to now and attempts to consume cost tokens.
// It returns the new state and whether the request fits the budget.
func Take(b Bucket, cfg Config, cost float64, now time.Time) (Bucket, bool) {
	nowMS := now.UnixMilli()

	if b.UpdatedAtMS == 0 {
		b.Tokens = cfg.Capacity
		b.UpdatedAtMS = nowMS
	}

	if elapsed := nowMS - b.UpdatedAtMS; elapsed > 0 && cfg.RefillInterval > 0 {
		intervals := float64(elapsed) / float64(cfg.RefillInterval.Milliseconds())
		b.Tokens += intervals * cfg.RefillTokens
		if b.Tokens > cfg.Capacity {
			b.Tokens = cfg.Capacity
		}
		b.UpdatedAtMS = nowMS
	}

	if b.Tokens < cost {
		return b, false
	}
	b.Tokens -= cost
	return b, true
}
