package alert

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter keyed by destination. A denied
// check reports how long until the window frees a slot; callers wait that
// long rather than dropping the send.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	now         func() time.Time
}

// LimitDecision is the outcome of a rate-limit check.
type LimitDecision struct {
	Allowed   bool
	ResetIn   time.Duration // wait before retrying, zero when allowed
	Remaining int
}

// NewRateLimiter creates a limiter allowing maxRequests per window, per key.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.now = now
	return r
}

// Check trims expired timestamps for key, then either records the request
// and allows it, or denies it with the time until the oldest recorded
// request leaves the window. A denied check records nothing.
func (r *RateLimiter) Check(key string) LimitDecision {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-r.window)

	valid := r.requests[key][:0]
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= r.maxRequests {
		r.requests[key] = valid
		resetIn := valid[0].Add(r.window).Sub(now)
		return LimitDecision{Allowed: false, ResetIn: resetIn}
	}

	valid = append(valid, now)
	r.requests[key] = valid
	return LimitDecision{Allowed: true, Remaining: r.maxRequests - len(valid)}
}

// Cleanup drops keys whose every timestamp has left the window. Safe to call
// from a maintenance sweep; Check already trims per-key state on access.
func (r *RateLimiter) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	windowStart := r.now().Add(-r.window)
	for key, times := range r.requests {
		valid := times[:0]
		for _, t := range times {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(r.requests, key)
		} else {
			r.requests[key] = valid
		}
	}
}
