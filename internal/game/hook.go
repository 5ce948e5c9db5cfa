package game

// sweep moves the hook one step. Overshooting a bound clamps to it and turns
// the hook around in the same step.
func (h *Hook) sweep(step, lo, hi int) {
	next := h.X + h.Dir*step
	switch {
	case h.Dir > 0 && next > hi:
		next = hi
		h.Dir = -1
	case h.Dir < 0 && next < lo:
		next = lo
		h.Dir = 1
	}
	h.X = next
}

func (e *Engine) sweepTick() {
	e.sess.hook.sweep(e.cfg.HookStep, e.cfg.HookMin, e.cfg.HookMax)
	e.notify()
}
