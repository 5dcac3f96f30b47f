package engine

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualClock fires scheduled callbacks synchronously from Advance, in
// insertion order within the same due time. It keeps the engine's
// single-threaded dispatch semantics in tests.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []manualTimer
}

type manualTimer struct {
	at time.Duration
	fn func()
}

func newManualClock() *manualClock {
	return &manualClock{}
}

func (c *manualClock) After(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, manualTimer{at: c.now + d, fn: fn})
}

// Advance moves the clock forward and fires everything that came due,
// including callbacks scheduled by fired callbacks.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		idx := -1
		for i, t := range c.timers {
			if t.at <= c.now {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.mu.Unlock()
			return
		}
		fn := c.timers[idx].fn
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		c.mu.Unlock()
		fn()
	}
}
