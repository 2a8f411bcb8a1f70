// Package queue provides the unbounded work queue shared by the background
// schedulers.
package queue

import "sync"

// FIFO is an unbounded multi-producer queue. Push never blocks. A consumer
// that finds the queue empty waits on Ready.
type FIFO[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	ready chan struct{}
}

func New[T any]() *FIFO[T] {
	return &FIFO[T]{ready: make(chan struct{}, 1)}
}

// Push appends v and wakes a waiting consumer.
func (q *FIFO[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryPop removes the oldest element. ok is false when the queue is empty.
func (q *FIFO[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return v, false
	}
	v = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

// Ready is signalled after a Push. A receive does not guarantee an element:
// consumers must loop on TryPop.
func (q *FIFO[T]) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of queued elements.
func (q *FIFO[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
