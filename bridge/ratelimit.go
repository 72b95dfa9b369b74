package bridge

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window submission guard, constructor-injected
// into the orchestrator rather than process-global so tests can substitute
// the clock.
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	attempts []time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window, now: time.Now}
}

// NewRateLimiterWithClock substitutes the time source.
func NewRateLimiterWithClock(max int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{max: max, window: window, now: now}
}

// Allow records an attempt if the window has room. When it does not, the
// returned duration is the time until the oldest attempt leaves the window.
func (l *RateLimiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.attempts[:0]
	for _, ts := range l.attempts {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.attempts = kept

	if len(l.attempts) >= l.max {
		return false, l.attempts[0].Add(l.window).Sub(now)
	}

	l.attempts = append(l.attempts, now)
	return true, 0
}
