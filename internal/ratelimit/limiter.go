package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of one rate limit check
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter enforces a per-identifier request cap over a fixed window. When a
// primary store is configured its count wins; a primary error degrades the
// check to the in-process fallback instead of failing the request, trading
// strict accuracy for availability.
type Limiter struct {
	primary  Store
	fallback Store
	limit    int
	window   time.Duration
	logger   *zap.Logger
}

// NewLimiter creates a limiter. primary may be nil, in which case only the
// fallback is used. limit must be positive.
func NewLimiter(primary Store, fallback Store, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	return &Limiter{
		primary:  primary,
		fallback: fallback,
		limit:    limit,
		window:   window,
		logger:   logger,
	}
}

// Limit returns the configured request cap
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the configured window duration
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow records one request for identifier and reports whether it is within
// the limit, along with how many requests remain in the current window.
func (l *Limiter) Allow(ctx context.Context, identifier string) Result {
	count, err := l.incr(ctx, identifier)
	if err != nil {
		// Both stores failing means the counter itself is broken;
		// let the request through rather than block all traffic.
		l.logger.Error("Rate limit counters unavailable",
			zap.Error(err),
			zap.String("identifier", identifier),
		)
		return Result{Allowed: true, Remaining: l.limit}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.limit),
		Remaining: remaining,
	}
}

func (l *Limiter) incr(ctx context.Context, identifier string) (int64, error) {
	if l.primary != nil {
		count, err := l.primary.Incr(ctx, identifier, l.window)
		if err == nil {
			return count, nil
		}
		l.logger.Warn("Primary rate limit store failed, using in-process fallback",
			zap.Error(err),
			zap.String("identifier", identifier),
		)
	}
	return l.fallback.Incr(ctx, identifier, l.window)
}
