// Package simulation provides the injectable approval decision used by the
// participant services to simulate downstream failures. Production wiring uses
// a random decider with a configured success rate; tests inject a fixed one.
package simulation

import "math/rand"

// Decider decides whether a forward action is approved.
type Decider interface {
	Approve() bool
}

// DeciderFunc adapts a func to the Decider interface.
type DeciderFunc func() bool

func (f DeciderFunc) Approve() bool {
	return f()
}

// NewRandomDecider approves with the given probability in [0, 1].
func NewRandomDecider(successRate float64) Decider {
	return DeciderFunc(func() bool {
		return rand.Float64() < successRate
	})
}

// Always returns a decider with a fixed outcome.
func Always(approve bool) Decider {
	return DeciderFunc(func() bool {
		return approve
	})
}
