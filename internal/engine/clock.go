package engine

import "github.com/jonboulle/clockwork"

// clock anchors every query window ("last 7 days", "last 30 days"). Tests
// freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for query windows. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
