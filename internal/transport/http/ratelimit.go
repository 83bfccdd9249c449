package http

import "time"

// rateLimiter caps inbound chat messages per connection per minute. It is
// only ever touched from the connection's read loop, so it needs no locking;
// the window rolls over on the next allow call after a minute has elapsed.
// A zero limit disables it entirely.
type rateLimiter struct {
	limit       int
	counter     int
	windowStart time.Time
	now         func() time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit: limit,
		now:   time.Now,
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	now := r.now()
	if now.Sub(r.windowStart) >= time.Minute {
		r.windowStart = now
		r.counter = 0
	}

	r.counter++
	return r.counter <= r.limit
}
