package config

import (
	"sync"
	"time"
)

// IntervalCell holds the current reconciliation interval. Readers take a
// Snapshot to get the value together with a channel that is closed on the
// next change, so a change that lands between reading the value and starting
// to wait on it is never lost.
type IntervalCell struct {
	mu      sync.Mutex
	value   time.Duration
	changed chan struct{}
}

// NewIntervalCell returns a cell holding d, or DefaultCheckInterval if d is
// not positive.
func NewIntervalCell(d time.Duration) *IntervalCell {
	if d <= 0 {
		d = DefaultCheckInterval
	}
	return &IntervalCell{
		value:   d,
		changed: make(chan struct{}),
	}
}

// Get returns the current interval.
func (c *IntervalCell) Get() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the interval and wakes every waiter. Non-positive values and
// values equal to the current one are ignored. It reports whether the value
// changed.
func (c *IntervalCell) Set(d time.Duration) bool {
	if d <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if d == c.value {
		return false
	}
	c.value = d
	close(c.changed)
	c.changed = make(chan struct{})
	return true
}

// Snapshot returns the current interval and a channel closed on the next Set
// that changes it.
func (c *IntervalCell) Snapshot() (time.Duration, <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.changed
}
