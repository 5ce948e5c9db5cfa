// internal/game/catch.go
//
// Catch resolution runs as a tagged phase on the hook:
//
//	idle --Catch--> extending --ExtendDelay--> resolve
//	resolve (hit)  --> retracting --RetractDelay--> idle
//	resolve (miss) --> idle
//
// Only one catch may be in flight. Each delayed step carries the session
// generation and is dropped if that session is no longer active.

package game

// Catch requests a catch. Ignored unless a session is active and the hook is idle.
func (e *Engine) Catch() bool {
	if e.status != StatusActive || e.sess.hook.Phase != PhaseIdle {
		return false
	}
	s := e.sess
	gen := s.gen
	s.hook.Phase = PhaseExtending
	s.catch = e.sched.AfterFunc(e.cfg.ExtendDelay, func() {
		if !e.live(gen) {
			return
		}
		e.resolveCatch()
	})
	e.notify()
	return true
}

func (e *Engine) resolveCatch() {
	s := e.sess
	s.catch = nil

	i := e.catchable()
	if i < 0 {
		s.hook.Phase = PhaseIdle
		e.notify()
		return
	}

	item := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.score += item.Points
	e.showCaught(item)
	s.hook.Phase = PhaseRetracting

	e.log.Debug().Uint64("generation", s.gen).Int64("item", item.ID).Str("kind", string(item.Kind)).
		Int("points", item.Points).Int("score", s.score).Msg("item caught")

	if e.checkTarget() {
		return
	}

	gen := s.gen
	s.catch = e.sched.AfterFunc(e.cfg.RetractDelay, func() {
		if !e.live(gen) {
			return
		}
		s.catch = nil
		s.hook.Phase = PhaseIdle
		e.notify()
	})
	e.notify()
}

// catchable returns the index of the first item, in spawn order, inside the
// catch window around the hook, or -1.
func (e *Engine) catchable() int {
	s := e.sess
	for i, it := range s.items {
		if abs(it.X-s.hook.X) <= e.cfg.CatchTolerance && abs(it.Y-e.cfg.CatchDepth) <= e.cfg.CatchBand {
			return i
		}
	}
	return -1
}

// showCaught replaces the feedback snapshot and restarts its expiry.
func (e *Engine) showCaught(item Item) {
	s := e.sess
	if s.feedback != nil {
		s.feedback.Stop()
	}
	s.lastCaught = &Caught{ItemID: item.ID, Kind: item.Kind, Points: item.Points}
	gen := s.gen
	s.feedback = e.sched.AfterFunc(e.cfg.FeedbackDuration, func() {
		if e.gen != gen {
			return
		}
		s.feedback = nil
		s.lastCaught = nil
		e.notify()
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
