package ratelimit

import (
	"context"
	"time"

	"shinypull/internal/pkg/redis"
)

// Result reports a single rate-limit decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// Limiter answers "may this identifier make another request right now".
type Limiter interface {
	Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) (*Result, error)
}

type fixedWindowLimiter struct {
	prefix string
}

// NewFixedWindowLimiter returns a redis-backed fixed-window limiter.
func NewFixedWindowLimiter(prefix string) Limiter {
	return &fixedWindowLimiter{prefix: prefix}
}

func (s *fixedWindowLimiter) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) (*Result, error) {
	count, ttl, err := redis.IncrWithWindow(ctx, s.prefix+identifier, window)
	if err != nil {
		return nil, err
	}

	remaining := maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= int64(maxRequests),
		Remaining: remaining,
		ResetTime: time.Now().Add(ttl),
	}, nil
}
