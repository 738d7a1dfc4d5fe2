package broadcast

import (
	"context"
	"errors"
)

// Status reports the outcome of a non-blocking async receive attempt.
type Status int

const (
	// StatusReady means a Handle was returned.
	StatusReady Status = iota
	// StatusPending means there was no new data; the caller's notifier
	// is armed and will fire once more data may be available.
	StatusPending
	// StatusClosed means the channel is closed and fully drained.
	StatusClosed
)

// AsyncPublisher is the publisher half of an async channel. Send always
// completes immediately: the bare ring never waits on capacity, so there
// is no pending case on the publish side.
type AsyncPublisher[T any] struct {
	pub   *Publisher[T]
	wakes *wakeSet
}

// AsyncSubscriber is the subscriber half of an async channel, for
// cooperative-concurrency callers that poll rather than block a thread.
//
// Unlike a Rust Stream's per-poll Context, an AsyncSubscriber's notifier
// is a single long-lived channel registered once at construction (or
// clone), not a fresh waker handed in on every call: there's nothing to
// "replace" between polls, and a stale wake sitting unread in the
// channel is harmless, which is exactly the tolerance the wakeup
// contract asks for.
type AsyncSubscriber[T any] struct {
	sub    *Subscriber[T]
	wakes  *wakeSet
	id     uint64
	notify chan struct{}
}

// NewAsyncChannel constructs a channel whose Subscriber can be polled
// non-blockingly via TryNext, or composed into a select via Notify.
// size must be a positive integer.
func NewAsyncChannel[T any](size uint64) (*AsyncPublisher[T], *AsyncSubscriber[T], error) {
	pub, sub, err := NewChannel[T](size)
	if err != nil {
		return nil, nil, err
	}

	wakes := newWakeSet()
	id, notify := wakes.register()

	return &AsyncPublisher[T]{pub: pub, wakes: wakes},
		&AsyncSubscriber[T]{sub: sub, wakes: wakes, id: id, notify: notify},
		nil
}

// Send publishes item and wakes every subscriber's notifier. It is
// always ready: the return value mirrors the bare ring's result, there
// is no pending outcome on the publish side.
func (p *AsyncPublisher[T]) Send(item T) error {
	err := p.pub.Broadcast(item)
	if err == nil {
		p.wakes.wakeAll()
	}
	return err
}

// Close closes the channel and wakes every subscriber's notifier so each
// observes StatusClosed once it has drained the retained window.
func (p *AsyncPublisher[T]) Close() {
	p.pub.Close()
	p.wakes.wakeAll()
}

// TryNext attempts a non-blocking receive. On StatusPending the caller's
// notifier (see Notify) is left armed to fire on the next Broadcast or
// Close; the caller is expected to select on it and retry.
func (s *AsyncSubscriber[T]) TryNext() (Handle[T], Status) {
	h, err := s.sub.Recv()
	switch {
	case err == nil:
		return h, StatusReady
	case errors.Is(err, ErrClosed):
		return Handle[T]{}, StatusClosed
	default:
		return Handle[T]{}, StatusPending
	}
}

// Notify returns the channel that fires once new data may be available
// or the channel has closed. Intended for composing into a caller's own
// select alongside other work, rather than blocking on this channel
// alone — that's what Next is for.
func (s *AsyncSubscriber[T]) Notify() <-chan struct{} {
	return s.notify
}

// Next is a convenience loop over TryNext and Notify for callers that do
// want to simply await the next item. Dropping ctx (cancelling it)
// cleanly abandons the wait; a notifier fire that arrives afterward is
// inert, since nothing reads Next's notify channel anymore until the
// next call.
func (s *AsyncSubscriber[T]) Next(ctx context.Context) (Handle[T], error) {
	for {
		h, status := s.TryNext()
		switch status {
		case StatusReady:
			return h, nil
		case StatusClosed:
			return Handle[T]{}, ErrClosed
		}

		select {
		case <-s.notify:
			continue
		case <-ctx.Done():
			return Handle[T]{}, ctx.Err()
		}
	}
}

// Clone produces an independent subscriber starting at this one's
// current read position, registered for its own notifications.
func (s *AsyncSubscriber[T]) Clone() *AsyncSubscriber[T] {
	clone := s.sub.Clone()
	id, notify := s.wakes.register()
	return &AsyncSubscriber[T]{sub: clone, wakes: s.wakes, id: id, notify: notify}
}

// Close drops this subscriber and stops it from receiving notifications.
func (s *AsyncSubscriber[T]) Close() {
	s.sub.Close()
	s.wakes.unregister(s.id)
}
