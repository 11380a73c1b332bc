package framework

import (
	"sync"
	"time"
)

// ManualClock is a Clock driven explicitly, mostly for tests.
// Timers expire immediately by advancing the clock, so blocking
// waits complete without real sleeping while time still moves.
type ManualClock struct {
	lock  sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewManualClock creates a ManualClock starting at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// After implements Clock.
func (c *ManualClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.lock.Lock()
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
	ch <- c.now
	c.lock.Unlock()
	return ch
}

// Waits returns the durations of all timers requested.
func (c *ManualClock) Waits() []time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]time.Duration(nil), c.waits...)
}
