package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Clock provides the time source and timers for timed logic.
// Everything measuring protocol time takes a Clock so tests can
// drive time explicitly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// After returns a chan which fires once the duration elapses.
	After(time.Duration) <-chan time.Time
}

// SystemClock is the Clock backed by the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// After implements Clock.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// ClockOrDefault returns c, or SystemClock if c is nil.
func ClockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
