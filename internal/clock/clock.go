// internal/clock/clock.go
//
// Timer abstraction used by the simulation engine.
// Two schedulers are provided:
//   - Loop:    real time; every callback is delivered onto a single goroutine.
//   - Virtual: manual time for tests and replays; advanced explicitly.
//
// Both guarantee that callbacks never overlap, so code running inside a
// callback may touch shared state without locks.

package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents any further invocation of the callback.
	// Reports whether the timer was still live.
	Stop() bool
}

// Scheduler hands out one-shot and periodic timers.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// StopAll stops every non-nil timer in ts.
func StopAll(ts ...Timer) {
	for _, t := range ts {
		if t != nil {
			t.Stop()
		}
	}
}
