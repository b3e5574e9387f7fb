package controller

import "sync"

// guardedState wraps screen state with a fetch sequence number. begin marks
// the start of a fetch and supersedes all earlier ones; commit applies a
// mutation only when its sequence is still current, which is what discards
// stale responses from overlapping fetches.
type guardedState[T any] struct {
	mu  sync.Mutex
	seq uint64
	val T
}

func (g *guardedState[T]) get() T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

func (g *guardedState[T]) set(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.val = v
}

func (g *guardedState[T]) update(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.val)
}

// begin bumps the sequence and returns it together with a snapshot of the
// current state.
func (g *guardedState[T]) begin() (uint64, T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq, g.val
}

// commit applies fn when seq is still the latest fetch and reports whether
// it did.
func (g *guardedState[T]) commit(seq uint64, fn func(*T)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq {
		return false
	}
	fn(&g.val)
	return true
}
