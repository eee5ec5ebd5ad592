// Value refreshed by probe at most once per interval.
// Usage scenario examples: network connectivity, service state, update manifest.
// Get never blocks on probe. Probe may run inline via RefreshIfDue,
// or elsewhere using Due/Begin/Set, caller decides where.
// All methods except `NewPeriodic` are thread-safe, but the intended
// owner is single tick goroutine.
package cacheval

import (
	"sync"
	"time"
)

type Periodic[T any] struct {
	mu        sync.Mutex
	value     T
	lastCheck time.Time // zero = never, first refresh is due immediately
	interval  time.Duration
}

// seed is called once, synchronously, to have something to show before first refresh.
func NewPeriodic[T any](interval time.Duration, seed func() T) *Periodic[T] {
	c := &Periodic[T]{interval: interval}
	if seed != nil {
		c.value = seed()
	}
	return c
}

func (c *Periodic[T]) Interval() time.Duration { return c.interval }

// Returns last stored value. Fast and cheap.
func (c *Periodic[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Periodic[T]) due(now time.Time) bool {
	return c.lastCheck.IsZero() || now.Sub(c.lastCheck) >= c.interval
}

func (c *Periodic[T]) Due(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.due(now)
}

// Begin claims current interval: returns true and marks check time if refresh was due.
// Caller that got true must eventually Set the probe result.
func (c *Periodic[T]) Begin(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.due(now) {
		return false
	}
	c.lastCheck = now
	return true
}

func (c *Periodic[T]) Set(new T) {
	c.mu.Lock()
	c.value = new
	c.mu.Unlock()
}

// RefreshIfDue runs probe inline when interval elapsed since last check,
// otherwise returns cached value. Probe runs without lock held.
func (c *Periodic[T]) RefreshIfDue(now time.Time, probe func() T) T {
	if !c.Begin(now) {
		return c.Get()
	}
	v := probe()
	c.Set(v)
	return v
}

// Force next Due/RefreshIfDue to be true.
func (c *Periodic[T]) Invalidate() {
	c.mu.Lock()
	c.lastCheck = time.Time{}
	c.mu.Unlock()
}
