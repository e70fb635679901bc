// Package events provides a small in-process pub/sub bus.
package events

import "sync"

// DefaultBuffer is the per-subscriber channel depth.
const DefaultBuffer = 32

// Bus fans values out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the value. That is acceptable for the realtime
// channel, where the client re-fetches state over HTTP anyway.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	buffer int
	closed bool
}

// NewBus returns a bus with the given per-subscriber buffer size.
// A non-positive size falls back to DefaultBuffer.
func NewBus[T any](buffer int) *Bus[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus[T]{
		subs:   make(map[int]chan T),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once.
func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers v to every subscriber with buffer room.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// slow subscriber, drop
		}
	}
}

// Len reports the current subscriber count.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Further publishes are no-ops and
// further subscribes receive an already-closed channel.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
