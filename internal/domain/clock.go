package domain

import "github.com/jonboulle/clockwork"

// clock stamps new simulations. Tests freeze it via SetClock so CreatedAt is
// deterministic.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewSimulation. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
