// Package deque provides a fixed-capacity, newest-first sequence.
package deque

// Bounded holds at most Cap() items ordered newest first. Pushing onto a full
// deque evicts the oldest (tail) item.
type Bounded[T any] struct {
	items    []T
	capacity int
}

// New creates a Bounded deque with the given capacity, seeded with items that are
// already ordered newest first. Seed items beyond the capacity are dropped from
// the tail. A capacity below 1 is treated as 1.
func New[T any](capacity int, items ...T) *Bounded[T] {
	if capacity < 1 {
		capacity = 1
	}

	n := len(items)
	if n > capacity {
		n = capacity
	}

	d := &Bounded[T]{
		items:    make([]T, n, capacity),
		capacity: capacity,
	}
	copy(d.items, items[:n])
	return d
}

// PushFront inserts item as the newest entry, truncating to capacity.
func (d *Bounded[T]) PushFront(item T) {
	if len(d.items) < d.capacity {
		d.items = append(d.items, item)
	}
	copy(d.items[1:], d.items[:len(d.items)-1])
	d.items[0] = item
}

// Items returns a copy of the contents, newest first.
func (d *Bounded[T]) Items() []T {
	out := make([]T, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of stored items.
func (d *Bounded[T]) Len() int {
	return len(d.items)
}

// Cap returns the maximum number of items the deque retains.
func (d *Bounded[T]) Cap() int {
	return d.capacity
}
