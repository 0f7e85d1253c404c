// Package dispatch hands work from arbitrary goroutines to the goroutine
// that owns a graph.Runtime.
package dispatch

import (
	"sync"

	"go.uber.org/multierr"
)

// Queue collects functions posted from any goroutine until the owner drains
// them.
type Queue struct {
	mu    sync.Mutex
	funcs []func() error
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post appends fn and wakes a Loop waiting on Ready. It never blocks.
func (q *Queue) Post(fn func() error) {
	q.mu.Lock()
	q.funcs = append(q.funcs, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value after at least one Post since the last receive.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.funcs)
}

// Drain runs everything posted so far in order. Functions posted while
// draining wait for the next Drain. Errors are combined.
func (q *Queue) Drain() error {
	q.mu.Lock()
	funcs := q.funcs
	q.funcs = nil
	q.mu.Unlock()

	var errs error
	for _, fn := range funcs {
		errs = multierr.Append(errs, fn())
	}
	return errs
}
