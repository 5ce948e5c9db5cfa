// internal/game/session.go
//
// session is one playthrough. Only the Engine creates or discards one; every
// timer that mutates it is owned here so the whole set can be cancelled
// together when the session ends or is replaced.

package game

import "github.com/lacey1998/FishMIner-Game/internal/clock"

type session struct {
	gen        uint64
	score      int
	timeLeft   int
	items      []Item
	hook       Hook
	lastCaught *Caught
	reason     EndReason

	tickers  []clock.Timer // countdown, spawn, fall, sweep
	catch    clock.Timer   // pending extend->resolve or retract->idle
	feedback clock.Timer   // clears lastCaught
}

func newSession(gen uint64, cfg Config) *session {
	return &session{
		gen:      gen,
		timeLeft: cfg.Duration,
		items:    []Item{},
		hook:     Hook{X: cfg.HookStart, Dir: 1, Phase: PhaseIdle},
	}
}

// halt cancels the periodic ticks and any in-flight catch step.
func (s *session) halt() {
	clock.StopAll(s.tickers...)
	s.tickers = nil
	if s.catch != nil {
		s.catch.Stop()
		s.catch = nil
	}
}

// discard cancels everything, feedback included.
func (s *session) discard() {
	s.halt()
	if s.feedback != nil {
		s.feedback.Stop()
		s.feedback = nil
	}
}
