// Package outbox connects producers of outgoing requests to the network
// worker, and the network worker back to the renderer.
package outbox

import (
	"context"
	"sync"

	"github.com/zhubert/tgterm/internal/protocol"
)

// Queue is an unbounded FIFO of outgoing requests. Any goroutine may push;
// one consumer drains.
type Queue struct {
	mu    sync.Mutex
	items []protocol.Request
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a request. It never blocks on the consumer and never drops.
func (q *Queue) Push(r protocol.Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, r)
}

// Drain removes and returns everything queued so far, in push order.
// Requests pushed while the caller sends the batch wait for the next call.
func (q *Queue) Drain() []protocol.Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	batch := q.items
	q.items = nil
	return batch
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Signal is a coalescing wakeup. Any number of Raise calls between two
// waits produce a single wakeup.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a signal with nothing pending.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise marks the signal pending. It never blocks.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C exposes the wakeup channel for use in select statements.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}

// Wait blocks until the signal is raised or ctx is done. It reports
// whether the signal fired.
func (s *Signal) Wait(ctx context.Context) bool {
	select {
	case <-s.ch:
		return true
	case <-ctx.Done():
		return false
	}
}
