// Package ratelimit implements a fixed-window request counter with a
// pluggable backend: an atomic Redis counter for cross-process correctness,
// and an in-process fallback that keeps a single instance available when
// Redis is unreachable.
package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key within a fixed window. Incr returns the
// count observed for key in the current window, including this call. The
// first increment of a window starts it.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
