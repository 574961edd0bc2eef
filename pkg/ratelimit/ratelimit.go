package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter is a fixed-window rate limiter backed by a shared redis counter,
// so the limit holds across concurrent stateless instances. Process-local
// counters cannot give that guarantee.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

// Allow counts one request for the (identity, endpoint, ip) tuple and
// reports whether it is within the window's budget.
func (l *Limiter) Allow(ctx context.Context, identity, endpoint, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s:%s", identity, endpoint, ip)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return n <= int64(l.limit), nil
}
