package session

import (
	"sync"

	"github.com/roach88/overs/internal/match"
)

// pendingQueue is a thread-safe FIFO of scripted deliveries.
//
// Queued deliveries are applied before the generator is asked for one, which
// is how manual scoring and scenario scripts steer a live match.
//
// The signal channel lets Autoplay wake as soon as a delivery is queued
// instead of waiting out its pacing delay.
type pendingQueue struct {
	mu     sync.Mutex
	events []match.BallEvent
	signal chan struct{} // buffered, size 1
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{signal: make(chan struct{}, 1)}
}

// Enqueue adds a delivery to the back of the queue.
func (q *pendingQueue) Enqueue(ev match.BallEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, ev)

	// Non-blocking: the buffer of 1 coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryDequeue removes the front delivery without blocking.
func (q *pendingQueue) TryDequeue() (match.BallEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events[0] = nil
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return ev, true
}

// Wait returns a channel that signals when deliveries may be available.
func (q *pendingQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued deliveries.
func (q *pendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Clear drops every queued delivery. A new match never inherits deliveries
// scripted for the previous one.
func (q *pendingQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = q.events[:0]
	select {
	case <-q.signal:
	default:
	}
}
