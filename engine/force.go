package engine

// SetForceRecompute sets the sticky force-recompute flag: the next
// iteration recomputes every reachable node regardless of input states,
// then the flag is cleared (unless the iteration is canceled, in which
// case it remains set).
func (e *Engine) SetForceRecompute() { e.forceRecompute = true }

// SetForceRecomputeImmediate is SetForceRecompute plus an immediate call to
// the engine's configured wake function, letting a caller's own poll loop
// be nudged to run the next iteration without delay.
func (e *Engine) SetForceRecomputeImmediate() {
	e.forceRecompute = true
	e.wake()
}

// ClearForceRecompute clears the force-recompute flag without running an
// iteration.
func (e *Engine) ClearForceRecompute() { e.forceRecompute = false }

// GetForceRecompute reports whether a force-recompute is currently pending.
func (e *Engine) GetForceRecompute() bool { return e.forceRecompute }

// TriggerRecompute is an alias for SetForceRecompute.
func (e *Engine) TriggerRecompute() { e.SetForceRecompute() }
