package game

// spawnTick appends one fresh item at the top of the field.
func (e *Engine) spawnTick() {
	e.sess.items = append(e.sess.items, e.spawnItem())
	e.notify()
}

// spawnItem draws kind, column and points uniformly. IDs keep increasing
// across sessions so a renderer never sees one reused.
func (e *Engine) spawnItem() Item {
	kind := itemKinds[e.rng.IntN(len(itemKinds))]
	lo := e.cfg.FieldLeft + e.cfg.SpawnMargin
	hi := e.cfg.FieldRight - e.cfg.SpawnMargin
	e.nextID++
	return Item{
		ID:     e.nextID,
		Kind:   kind,
		Points: e.cfg.pointsFor(kind).draw(e.rng),
		X:      lo + e.rng.IntN(hi-lo+1),
		Y:      e.cfg.FieldTop,
	}
}
