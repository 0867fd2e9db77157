package forkjoin

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Tunables governing the spin/backoff discipline of the steal phase.
const (
	// SpinCount is how many steal attempts a worker makes between polls
	// of its control channel for Stop/Exit.
	SpinCount = 128
	// SpinsUntilBackoff is how many steal attempts happen before the
	// worker starts sleeping between attempts.
	SpinsUntilBackoff = 100
	// BackoffIncrementMicros is how much the backoff sleep grows, in
	// microseconds, after each unsuccessful spin-and-sleep round.
	BackoffIncrementMicros = 5
	// BackoffCapMicros bounds the otherwise-unbounded linear backoff
	// growth during a long idle stretch (spec's uncapped backoff is an
	// open question; this module caps it at one millisecond).
	BackoffCapMicros = 1000
)

// stealResult is the outcome of the steal phase: either a work unit was
// found, or the worker observed Stop / Exit on its control channel.
type stealResult int

const (
	stealGotWork stealResult = iota
	stealStop
	stealExit
)

// panicRecord captures the first panic observed across all workers during
// a run, so Run can re-panic with it once every worker has quiesced.
type panicRecord struct {
	once  sync.Once
	value any
}

func (r *panicRecord) record(v any) {
	r.once.Do(func() { r.value = v })
}

// workerThread is the worker-side state for one pool member: its index,
// its control/report channels, the thief handles to every other worker's
// deque, and a private RNG for victim selection.
type workerThread[Q any, W any] struct {
	index       int
	controlChan chan workerMsg[Q, W]
	reportChan  chan<- supervisorMsg[Q, W]
	otherDeques []*Deque[WorkUnit[Q, W]]
	rng         *rand.Rand
}

// run is the outer loop: park for Start/Exit, run the inner work loop,
// report the deque back, repeat. It returns when the worker has been told
// to Exit.
func (w *workerThread[Q, W]) run() {
	for msg := range w.controlChan {
		switch m := msg.(type) {
		case startMsg[Q, W]:
			exit := w.runInner(m)
			if exit {
				return
			}
			w.reportChan <- returnDequeMsg[Q, W]{index: w.index, deque: m.deque}
		case stopMsg[Q, W]:
			panic("forkjoin: unexpected stop message with no run in progress")
		case exitMsg[Q, W]:
			return
		default:
			panic("forkjoin: unexpected control message")
		}
	}
}

// runInner drives the pop/steal loop for one run, until either the
// outstanding counter has already been handed to another worker to
// observe and the supervisor sends Stop (returns false, deque goes back),
// or the supervisor sends Exit mid-steal (returns true, no deque return).
func (w *workerThread[Q, W]) runInner(m startMsg[Q, W]) (exit bool) {
	deque := m.deque
	for {
		wu, ok := deque.Pop()
		if !ok {
			var result stealResult
			wu, result = w.steal()
			switch result {
			case stealStop:
				return false
			case stealExit:
				return true
			}
		}
		w.execute(wu, deque, m.counter, m.userData, m.panics)
	}
}

// steal is the STEAL phase: spin, back off linearly, and poll the control
// channel once every SpinCount iterations.
func (w *workerThread[Q, W]) steal() (WorkUnit[Q, W], stealResult) {
	var zero WorkUnit[Q, W]
	backOffUs := 0
	spins := 0

	for {
		if len(w.otherDeques) > 0 {
			victim := w.otherDeques[w.rng.Intn(len(w.otherDeques))]
			if wu, outcome := victim.Steal(); outcome == StealData {
				return wu, stealGotWork
			}
		}

		spins++
		if spins > SpinsUntilBackoff {
			time.Sleep(time.Duration(backOffUs) * time.Microsecond)
			backOffUs += BackoffIncrementMicros
			if backOffUs > BackoffCapMicros {
				backOffUs = BackoffCapMicros
			}
		}

		if spins == SpinCount {
			select {
			case msg := <-w.controlChan:
				switch msg.(type) {
				case stopMsg[Q, W]:
					return zero, stealStop
				case exitMsg[Q, W]:
					return zero, stealExit
				default:
					panic("forkjoin: unexpected message during steal phase")
				}
			default:
			}
			spins = 0
		}
	}
}

// execute runs one work unit's function and accounts for its completion.
// A panicking Fn is recovered here: the panic is recorded (first one
// wins) and the counter is still decremented, so a panicking unit can
// never wedge termination detection.
func (w *workerThread[Q, W]) execute(
	wu WorkUnit[Q, W],
	deque *Deque[WorkUnit[Q, W]],
	counter *atomic.Uint64,
	userData *Q,
	panics *panicRecord,
) {
	proxy := &WorkerProxy[Q, W]{deque: deque, counter: counter, userData: userData}

	func() {
		defer func() {
			if r := recover(); r != nil {
				panics.record(r)
			}
		}()
		wu.Fn(wu.Data, proxy)
	}()

	if counter.Add(^uint64(0)) == 0 {
		w.reportChan <- finishedMsg[Q, W]{}
	}
}
