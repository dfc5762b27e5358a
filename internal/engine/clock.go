package engine

import "sync/atomic"

// Clock is the monotonic delivery counter.
//
// Every applied delivery is stamped with a strictly increasing seq. The seq
// orders the delivery log and chains its digest, so two runs from the same
// seed number their deliveries identically.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// However, a session serializes ApplyEvent, so only one goroutine typically
// calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when an engine picks up a state that already has deliveries.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
