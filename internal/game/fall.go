package game

// fallTick moves every item down one step, then drops the ones that reached
// the bottom. Both happen before anyone is notified.
func (e *Engine) fallTick() {
	s := e.sess
	kept := s.items[:0]
	for _, it := range s.items {
		it.Y += e.cfg.FallStep
		if it.Y >= e.cfg.FieldBottom {
			continue
		}
		kept = append(kept, it)
	}
	clear(s.items[len(kept):])
	s.items = kept
	e.notify()
}
