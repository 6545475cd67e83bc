package sim

import "sync/atomic"

// Counter is the population counter: the single piece of state shared
// across stepping workers. Growth goes through Reserve, which hands out
// each slot index at most once under arbitrary interleaving.
//
// Reserve is a fetch-and-increment with rollback: a reservation that
// would land past the cap decrements the counter back and fails. Between
// the increment and the rollback the raw value can transiently exceed
// the cap by up to the number of concurrently failing reservations, so
// Len clamps its read; a committed count above the cap is never
// observable.
type Counter struct {
	n   atomic.Int64
	cap int64
}

// NewCounter creates a counter with the given cap and initial live count.
func NewCounter(capacity, live int) *Counter {
	c := &Counter{cap: int64(capacity)}
	c.n.Store(int64(live))
	return c
}

// Reserve atomically claims the next free slot index. It reports false
// when the population cap is already reached; that is an expected
// outcome, not an error.
func (c *Counter) Reserve() (int, bool) {
	idx := c.n.Add(1) - 1
	if idx >= c.cap {
		c.n.Add(-1)
		return 0, false
	}
	return int(idx), true
}

// Len returns the committed population count.
func (c *Counter) Len() int {
	n := c.n.Load()
	if n > c.cap {
		n = c.cap
	}
	return int(n)
}

// Cap returns the population cap.
func (c *Counter) Cap() int {
	return int(c.cap)
}
