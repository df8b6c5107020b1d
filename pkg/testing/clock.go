package testing

import (
	"sync"
	stdtesting "testing"
	"time"

	"github.com/go-drift/tween/pkg/animation"
)

// Epoch is the time a new FakeClock starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock provides controllable time for deterministic animation tests.
// It satisfies animation.Clock. All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// UseFakeClock installs a fresh FakeClock as the animation clock and
// restores the previous clock when tb finishes.
func UseFakeClock(tb stdtesting.TB) *FakeClock {
	tb.Helper()
	clk := NewFakeClock()
	prev := animation.SetClock(clk)
	tb.Cleanup(func() { animation.SetClock(prev) })
	return clk
}
