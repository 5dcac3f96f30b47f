package engine

import "time"

// Scheduler is the only time primitive the engine uses. All simulated
// latencies (response generation, step execution, correction resolution)
// go through After, so tests can substitute a manual clock and drive the
// whole pipeline synchronously.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type realScheduler struct{}

func (realScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// NewScheduler returns a Scheduler backed by real timers.
func NewScheduler() Scheduler {
	return realScheduler{}
}
