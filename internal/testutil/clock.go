package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant returned by a new DeterministicClock.
var DefaultEpoch = time.Date(2024, time.November, 27, 12, 0, 0, 0, time.UTC)

// DeterministicClock is a wall clock for tests that advances by a fixed step
// on every call to Now.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewDeterministicClock creates a clock starting at DefaultEpoch and
// advancing one second per call.
//
// The first call to Now() returns DefaultEpoch.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{now: DefaultEpoch, step: time.Second}
}

// Now returns the current instant and then advances the clock by one step.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// Peek returns the instant the next Now() call will return.
func (c *DeterministicClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset moves the clock back to DefaultEpoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = DefaultEpoch
}
