package forkjoin

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type WorkerTestSuite struct {
	suite.Suite
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

// Boundary: thread_count == 1 has no steal victims; the steal phase must
// still respond to Stop without ever indexing an empty otherDeques slice.
func (ts *WorkerTestSuite) TestStealWithNoVictimsRespondsToStop() {
	controlChan := make(chan workerMsg[struct{}, int])
	w := &workerThread[struct{}, int]{
		index:       0,
		controlChan: controlChan,
		otherDeques: nil,
		rng:         newDeterministicRNG(),
	}

	done := make(chan stealResult, 1)
	go func() {
		_, result := w.steal()
		done <- result
	}()

	controlChan <- stopMsg[struct{}, int]{}

	select {
	case result := <-done:
		ts.Equal(stealStop, result)
	case <-timeoutChan():
		ts.Fail("steal() with no victims never observed Stop")
	}
}

func (ts *WorkerTestSuite) TestStealWithNoVictimsRespondsToExit() {
	controlChan := make(chan workerMsg[struct{}, int])
	w := &workerThread[struct{}, int]{
		index:       0,
		controlChan: controlChan,
		otherDeques: nil,
		rng:         newDeterministicRNG(),
	}

	done := make(chan stealResult, 1)
	go func() {
		_, result := w.steal()
		done <- result
	}()

	controlChan <- exitMsg[struct{}, int]{}

	select {
	case result := <-done:
		ts.Equal(stealExit, result)
	case <-timeoutChan():
		ts.Fail("steal() with no victims never observed Exit")
	}
}

func (ts *WorkerTestSuite) TestStealFindsWorkFromPeer() {
	victim := NewDeque[WorkUnit[struct{}, int]](4)
	victim.Push(WorkUnit[struct{}, int]{Data: 99})

	controlChan := make(chan workerMsg[struct{}, int])
	w := &workerThread[struct{}, int]{
		index:       0,
		controlChan: controlChan,
		otherDeques: []*Deque[WorkUnit[struct{}, int]]{victim},
		rng:         newDeterministicRNG(),
	}

	wu, result := w.steal()
	ts.Equal(stealGotWork, result)
	ts.Equal(99, wu.Data)
}
