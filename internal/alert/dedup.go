// Package alert fans classified trades out to the configured notification
// channels under deduplication and rate limiting.
package alert

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between two alerts sharing a dedup key.
const DefaultCooldown = 60 * time.Second

// Deduplicator suppresses repeat alerts for the same counterparty pair
// within a cooldown window. Expired entries are evicted on every access.
type Deduplicator struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSent map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator creates a deduplicator with the given cooldown window.
// A zero cooldown falls back to DefaultCooldown.
func NewDeduplicator(cooldown time.Duration) *Deduplicator {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Deduplicator{
		cooldown: cooldown,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (d *Deduplicator) WithClock(now func() time.Time) *Deduplicator {
	d.now = now
	return d
}

// ShouldSend reports whether an alert for key may be sent, and records the
// send time when it may. Check and record are one atomic step so two
// concurrent trades for the same key cannot both pass.
func (d *Deduplicator) ShouldSend(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.evictExpired(now)

	if last, ok := d.lastSent[key]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.lastSent[key] = now
	return true
}

// Touch refreshes the send timestamp for key. Called after fan-out
// completes: partial delivery still counts as delivered.
func (d *Deduplicator) Touch(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSent[key] = d.now()
}

// evictExpired drops entries past the cooldown. Callers hold d.mu.
func (d *Deduplicator) evictExpired(now time.Time) {
	for key, last := range d.lastSent {
		if now.Sub(last) >= d.cooldown {
			delete(d.lastSent, key)
		}
	}
}
