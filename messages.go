package forkjoin

import "sync/atomic"

// workerMsg is the supervisor-to-worker control protocol. It plays the
// role of the source's three-variant enum; Go expresses the same sum type
// as a small closed interface.
type workerMsg[Q any, W any] interface {
	isWorkerMsg()
}

// startMsg hands a worker its deque and the shared pointers for one run.
type startMsg[Q any, W any] struct {
	deque    *Deque[WorkUnit[Q, W]]
	counter  *atomic.Uint64
	userData *Q
	panics   *panicRecord
}

func (startMsg[Q, W]) isWorkerMsg() {}

// stopMsg asks an idle-after-finish worker to return its deque.
type stopMsg[Q any, W any] struct{}

func (stopMsg[Q, W]) isWorkerMsg() {}

// exitMsg asks a parked worker goroutine to terminate.
type exitMsg[Q any, W any] struct{}

func (exitMsg[Q, W]) isWorkerMsg() {}

// supervisorMsg is the worker-to-supervisor report protocol.
type supervisorMsg[Q any, W any] interface {
	isSupervisorMsg()
}

// finishedMsg reports that this worker observed the outstanding-work
// counter reach zero. Exactly one is sent per run.
type finishedMsg[Q any, W any] struct{}

func (finishedMsg[Q, W]) isSupervisorMsg() {}

// returnDequeMsg hands a drained deque back to the supervisor.
type returnDequeMsg[Q any, W any] struct {
	index int
	deque *Deque[WorkUnit[Q, W]]
}

func (returnDequeMsg[Q, W]) isSupervisorMsg() {}
