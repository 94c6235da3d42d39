package engine

import "github.com/rosie-lang/rpl/source"

// SetAllocLimit changes the allocation ceiling every subsequent Match or
// Trace call runs under (runtime.RunConfig.AllocLimit). A limit below
// minAllocLimit is rejected rather than silently clamped, matching
// spec.md section 6.1's "below minimum" error for set_alloc_limit.
func (e *Engine) SetAllocLimit(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	if n < minAllocLimit {
		return &EngineError{Kind: source.EngineCallFailed, Message: "alloc limit below minimum"}
	}
	e.allocLimit = n
	return nil
}

// GetAllocLimit returns the current ceiling and the working-set usage
// of the most recent Match/Trace call. Usage is always 0 between calls:
// the allocation ceiling only has meaning for the call/capture stacks a
// single Run builds up and tears down, and nothing of that working set
// survives past the call that built it (runtime.Context is allocated
// fresh per Run, never pooled across handles).
func (e *Engine) GetAllocLimit() (limit, usage int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allocLimit, 0
}
