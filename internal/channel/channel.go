// Package channel provides the bounded single-producer/single-consumer
// queues that move work items and frames between the caller and the
// rasterization worker.
package channel

import (
	"sync"
	"time"
)

// Chan is a bounded FIFO queue with an explicit close signal.
//
// Unlike a bare Go channel, Close may be called while the other side is
// still sending: Send reports false instead of panicking, and blocked
// receivers return false instead of waiting forever. Values still buffered
// at Close are delivered before receivers observe the end of stream.
type Chan[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Chan holding up to capacity values. Capacity below 1 is
// raised to 1.
func New[T any](capacity int) *Chan[T] {
	return &Chan[T]{
		ch:   make(chan T, max(capacity, 1)),
		done: make(chan struct{}),
	}
}

// Send enqueues v, blocking while the queue is full. It returns false if
// the Chan is closed, in which case v was not enqueued.
func (c *Chan[T]) Send(v T) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.ch <- v:
		return true
	case <-c.done:
		return false
	}
}

// Receive blocks until a value is available or the Chan is closed and
// drained.
func (c *Chan[T]) Receive() (T, bool) {
	select {
	case v := <-c.ch:
		return v, true
	default:
	}

	select {
	case v := <-c.ch:
		return v, true
	case <-c.done:
		return c.poll()
	}
}

// TryReceive waits at most timeout for a value. A zero or negative timeout
// polls once without blocking.
func (c *Chan[T]) TryReceive(timeout time.Duration) (T, bool) {
	if v, ok := c.poll(); ok || timeout <= 0 {
		return v, ok
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-c.ch:
		return v, true
	case <-c.done:
		return c.poll()
	case <-timer.C:
		var zero T
		return zero, false
	}
}

func (c *Chan[T]) poll() (T, bool) {
	select {
	case v := <-c.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of buffered values.
func (c *Chan[T]) Len() int {
	return len(c.ch)
}

// Cap returns the queue capacity.
func (c *Chan[T]) Cap() int {
	return cap(c.ch)
}

// Close marks the end of stream. Close is idempotent.
func (c *Chan[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Closed reports whether Close has been called.
func (c *Chan[T]) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
