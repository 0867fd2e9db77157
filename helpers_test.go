package forkjoin

import (
	"math/rand"
	"time"
)

func newDeterministicRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func timeoutChan() <-chan time.Time {
	return time.After(2 * time.Second)
}
