package http

import (
	"sync/atomic"
	"time"
)

// rateLimiter caps inbound frames per window. allow runs on the read loop
// while the reset goroutine clears the count, so the count is atomic.
type rateLimiter struct {
	limit  int64
	count  atomic.Int64
	ticker *time.Ticker
}

// newRateLimiter builds a limiter allowing limit frames per window. A limit
// of zero or less disables it.
func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	r := &rateLimiter{limit: int64(limit)}
	if limit > 0 {
		r.ticker = time.NewTicker(window)
	}
	return r
}

// allow records one inbound frame and reports whether it fits in the current
// window.
func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	return r.count.Add(1) <= r.limit
}

// startReset clears the count every window until stop closes.
func (r *rateLimiter) startReset(stop <-chan struct{}) {
	if r == nil || r.ticker == nil {
		return
	}
	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.count.Store(0)
			case <-stop:
				r.ticker.Stop()
				return
			}
		}
	}()
}
