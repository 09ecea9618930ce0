// Package queue provides the generic thread-safe queue backing the autosave
// pipeline: snapshot producers push, writer goroutines drain.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe queue.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Pop removes and returns the first item. Returns zero value if empty.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear removes all items from the queue.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

// GetAndEmpty returns all items and clears the queue.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = make([]T, 0, cap(q.items))
	return result
}

// DrainLatest empties the queue and returns only the newest item per key,
// preserving first-seen key order. The autosave writer uses it to collapse
// stale snapshots queued behind a newer one for the same drill.
func DrainLatest[T any, K comparable](q *Queue[T], key func(T) K) []T {
	drained := q.GetAndEmpty()
	if len(drained) == 0 {
		return nil
	}

	order := make([]K, 0, 1)
	latest := make(map[K]T, 1)
	for _, item := range drained {
		k := key(item)
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = item
	}

	result := make([]T, 0, len(order))
	for _, k := range order {
		result = append(result, latest[k])
	}
	return result
}

