package scope

import "sync/atomic"

// UpdateGate is a single freshness flag between an irregular producer and a
// fixed-rate render poll.
//
// The producer arms it on every frame; the poll takes it. Any number of
// arrivals between two polls collapse into one pending render, and a poll
// that finds the gate clear does no work at all.
type UpdateGate struct {
	fresh atomic.Bool
}

// Arm marks new data as available.
func (g *UpdateGate) Arm() {
	g.fresh.Store(true)
}

// Armed reports whether unconsumed data is available.
func (g *UpdateGate) Armed() bool {
	return g.fresh.Load()
}

// Clear marks the data as consumed.
func (g *UpdateGate) Clear() {
	g.fresh.Store(false)
}

// TakeIfArmed clears the gate and reports whether it was armed.
func (g *UpdateGate) TakeIfArmed() bool {
	return g.fresh.CompareAndSwap(true, false)
}
