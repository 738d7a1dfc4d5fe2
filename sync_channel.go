package broadcast

import (
	"context"
	"errors"
)

// SyncPublisher is the publisher half of a sync channel: broadcasting
// never blocks, and a successful broadcast wakes any subscriber parked
// in Recv.
type SyncPublisher[T any] struct {
	pub   *Publisher[T]
	wakes *wakeSet
}

// SyncSubscriber is the subscriber half of a sync channel. Recv may
// park the calling goroutine until data arrives or the publisher closes;
// TryRecv never blocks.
type SyncSubscriber[T any] struct {
	sub    *Subscriber[T]
	wakes  *wakeSet
	id     uint64
	signal chan struct{}
}

// NewSyncChannel constructs a channel whose Subscriber can block in Recv
// while waiting for new data. size must be a positive integer.
func NewSyncChannel[T any](size uint64) (*SyncPublisher[T], *SyncSubscriber[T], error) {
	pub, sub, err := NewChannel[T](size)
	if err != nil {
		return nil, nil, err
	}

	wakes := newWakeSet()
	id, signal := wakes.register()

	return &SyncPublisher[T]{pub: pub, wakes: wakes},
		&SyncSubscriber[T]{sub: sub, wakes: wakes, id: id, signal: signal},
		nil
}

// Broadcast publishes item, then wakes any subscriber parked in Recv.
// Waking is idempotent: a subscriber that is already awake, or already
// has a pending wakeup, is unaffected.
func (p *SyncPublisher[T]) Broadcast(item T) error {
	err := p.pub.Broadcast(item)
	if err == nil {
		p.wakes.wakeAll()
	}
	return err
}

// Close closes the channel and wakes every parked subscriber so each
// observes ErrClosed once it has drained the retained window.
func (p *SyncPublisher[T]) Close() {
	p.pub.Close()
	p.wakes.wakeAll()
}

// TryRecv is the non-blocking variant: it never parks.
func (s *SyncSubscriber[T]) TryRecv() (Handle[T], error) {
	return s.sub.Recv()
}

// Recv returns the next item, parking the calling goroutine while the
// channel is open but empty. It returns ErrClosed once the channel is
// closed and fully drained, or ctx.Err() if ctx is done first.
//
// Spurious wakeups are harmless: a parked subscriber that is woken
// without new data simply retries and re-parks.
func (s *SyncSubscriber[T]) Recv(ctx context.Context) (Handle[T], error) {
	for {
		h, err := s.sub.Recv()
		if err == nil {
			return h, nil
		}
		if errors.Is(err, ErrClosed) {
			return Handle[T]{}, ErrClosed
		}

		select {
		case <-s.signal:
			continue
		case <-ctx.Done():
			return Handle[T]{}, ctx.Err()
		}
	}
}

// Clone produces an independent subscriber starting at this one's
// current read position, registered for its own wakeups.
func (s *SyncSubscriber[T]) Clone() *SyncSubscriber[T] {
	clone := s.sub.Clone()
	id, signal := s.wakes.register()
	return &SyncSubscriber[T]{sub: clone, wakes: s.wakes, id: id, signal: signal}
}

// Close drops this subscriber and stops it from receiving wakeups.
func (s *SyncSubscriber[T]) Close() {
	s.sub.Close()
	s.wakes.unregister(s.id)
}
