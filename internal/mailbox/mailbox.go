// Package mailbox provides a single-slot job buffer where the latest
// job wins. It is NOT a queue: when scheduled runs pile up faster than
// they complete, only the most recent pending run matters, since every
// run backs up the same source.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu sync.Mutex
	ch chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores a job, replacing any job already waiting. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- j
}

// Take blocks until a job is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case j := <-m.ch:
		return j, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Pending reports whether a job is currently waiting.
func (m *Mailbox[T]) Pending() bool {
	return len(m.ch) > 0
}
