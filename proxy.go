package forkjoin

import "sync/atomic"

// WorkerProxy is the handle an executing WorkUnit uses to enqueue more
// work and to read the queue-wide user data. It is valid only for the
// duration of one WorkUnit.Fn invocation; do not store it.
type WorkerProxy[Q any, W any] struct {
	deque    *Deque[WorkUnit[Q, W]]
	counter  *atomic.Uint64
	userData *Q
}

// Push enqueues a child work unit onto the executing worker's own deque.
// The outstanding-work counter is incremented before the push becomes
// visible to thieves, so a peer that immediately steals the new unit can
// never observe the counter dip to zero out from under it.
func (p *WorkerProxy[Q, W]) Push(w WorkUnit[Q, W]) {
	p.counter.Add(1)
	p.deque.Push(w)
}

// UserData returns the queue-wide read-only user data.
func (p *WorkerProxy[Q, W]) UserData() *Q {
	return p.userData
}
