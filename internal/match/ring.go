package match

import "encoding/json"

// Ring is a bounded FIFO that drops its oldest entry when full.
type Ring[T any] struct {
	items []T
	cap   int
}

// NewRing creates an empty ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Push appends v, evicting the oldest entry if the ring is full.
func (r *Ring[T]) Push(v T) {
	if len(r.items) == r.cap {
		// Zero the evicted slot so it can be collected.
		var zero T
		r.items[0] = zero
		r.items = append(r.items[:0], r.items[1:]...)
	}
	r.items = append(r.items, v)
}

// Items returns a copy of the contents, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of items held.
func (r *Ring[T]) Len() int { return len(r.items) }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return r.cap }

// Last returns the newest item.
func (r *Ring[T]) Last() (T, bool) {
	if len(r.items) == 0 {
		var zero T
		return zero, false
	}
	return r.items[len(r.items)-1], true
}

// MarshalJSON encodes the ring as a plain array.
func (r *Ring[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Items())
}
