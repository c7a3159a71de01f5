package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant a DeterministicClock reports.
var Epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe clock for tests that advances one
// second per reading.
//
// The n-th call to Now returns Epoch plus n-1 seconds, so the same test
// produces the same timestamps on every run. Reset starts over at Epoch.
type DeterministicClock struct {
	mu    sync.Mutex
	ticks int64
}

// NewDeterministicClock creates a clock whose first reading is Epoch.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Now returns the current reading and advances the clock by one second.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := Epoch.Add(time.Duration(c.ticks) * time.Second)
	c.ticks++
	return now
}

// Readings returns how many times Now has been called since the last Reset.
func (c *DeterministicClock) Readings() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset makes the next reading Epoch again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
