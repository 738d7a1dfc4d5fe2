package broadcast

import (
	"runtime"
	"sync/atomic"
)

// ringSpinsBeforeYield bounds how many times Recv re-validates a slot
// against a racing Broadcast before giving the scheduler a turn. Mirrors
// aradilov/ringbuffer's goschedEvery spin-yield threshold in its CAS loops.
const ringSpinsBeforeYield = 64

// slot is one cell of the ring. seq is the sequence number currently
// published in this slot (1-based: seq == i+1 once index i has been
// written, and 0 while the publisher is replacing item); item is the
// shared-ownership handle to the payload.
//
// Unlike a claim-based queue, a slot is never exclusively owned by a
// reader: seq is written solely by the publisher, and every subscriber
// may load item concurrently.
type slot[T any] struct {
	seq  atomic.Uint64
	item atomic.Pointer[T]
}

// Ring is the bare lock-free broadcast ring. It is held by shared
// ownership across the Publisher and every live Subscriber; Go's garbage
// collector reclaims the slot array once nothing references it anymore,
// which is also how slot payloads outlive eviction: a Handle returned to
// a subscriber is a plain *T, kept alive by ordinary reachability for as
// long as that subscriber holds it, with no manual refcounting required.
type Ring[T any] struct {
	size  uint64
	slots []slot[T]

	wi atomic.Uint64

	subscribers atomic.Int64
	closed      atomic.Bool
}

// RingStats is a point-in-time, read-only snapshot of ring occupancy.
// Gathering it costs only atomic loads; it never touches a slot.
type RingStats struct {
	WriteIndex      uint64
	SubscriberCount int64
	Closed          bool
}

func newRing[T any](size uint64) (*Ring[T], error) {
	if size == 0 {
		return nil, ErrInvalidSize
	}
	return &Ring[T]{
		size:  size,
		slots: make([]slot[T], size),
	}, nil
}

// Stats returns a snapshot of the ring's current occupancy.
func (r *Ring[T]) Stats() RingStats {
	return RingStats{
		WriteIndex:      r.wi.Load(),
		SubscriberCount: r.subscribers.Load(),
		Closed:          r.closed.Load(),
	}
}

// NumSubscribers returns the number of subscribers currently bound to
// the ring, including clones.
func (r *Ring[T]) NumSubscribers() int64 {
	return r.subscribers.Load()
}

// Handle is a shared-ownership reference to a received item. Cloning a
// Handle is O(1) and never touches the ring; the underlying payload is
// never copied by the ring itself.
type Handle[T any] struct {
	v *T
}

// Value dereferences the handle. Access is infallible for a Handle
// returned without an error, which always owns a live payload; the zero
// Handle returned alongside an error owns none.
func (h Handle[T]) Value() T {
	return *h.v
}

// Clone returns an independent reference to the same payload.
func (h Handle[T]) Clone() Handle[T] {
	return h
}

// Publisher is the sole producer bound to a ring. Publishers are not
// cloneable.
type Publisher[T any] struct {
	ring *Ring[T]
}

// Broadcast publishes item to the ring. It never blocks: a slow
// subscriber that has not consumed the oldest retained item simply loses
// it once the ring wraps over that slot again.
//
// Broadcast fails with ErrNoSubscribers if the subscriber count has
// dropped to zero, and with ErrClosed if the publisher has already
// closed the channel.
func (p *Publisher[T]) Broadcast(item T) error {
	if p.ring.closed.Load() {
		return ErrClosed
	}
	if p.ring.subscribers.Load() == 0 {
		return ErrNoSubscribers
	}

	wi := p.ring.wi.Load()
	idx := wi % p.ring.size
	s := &p.ring.slots[idx]

	ptr := new(T)
	*ptr = item

	// Mark the slot as being rewritten, store the payload, then publish
	// it via seq, then advance the global write cursor. Subscribers
	// validate freshness by comparing seq to the index they expect, and
	// only trust a slot read once seq agrees before and after the load
	// (see Subscriber.Recv).
	s.seq.Store(0)
	s.item.Store(ptr)
	s.seq.Store(wi + 1)
	p.ring.wi.Store(wi + 1)

	return nil
}

// Close marks the channel closed. No further Broadcast call succeeds.
// Subscribers continue to drain items already in the retained window;
// once a subscriber's read index catches up to the write cursor, it
// observes ErrClosed instead of ErrEmpty. Close is idempotent.
func (p *Publisher[T]) Close() {
	p.ring.closed.Store(true)
}

// Subscriber is an independently positioned consumer bound to a ring.
// A Subscriber is not itself safe for concurrent use by more than one
// goroutine at a time; use Clone to hand off to another goroutine.
type Subscriber[T any] struct {
	ring   *Ring[T]
	ri     atomic.Uint64
	closed atomic.Bool
}

// Recv returns the next item, never blocking.
//
//   - ErrEmpty: no new data, channel still open.
//   - ErrClosed: no new data, channel closed.
//   - otherwise: a Handle to the next item in order, or — if this
//     subscriber has fallen more than size items behind — a Handle to
//     the oldest item still retained, with the read index fast-forwarded
//     to match. Overrun is not reported as an error; the caller observes
//     it only by comparing how far its read index jumped.
func (s *Subscriber[T]) Recv() (Handle[T], error) {
	var zero Handle[T]
	ri := s.ri.Load()

	for spins := 0; ; spins++ {
		wi := s.ring.wi.Load()
		if ri == wi {
			if s.ring.closed.Load() {
				return zero, ErrClosed
			}
			return zero, ErrEmpty
		}

		var oldest uint64
		if wi > s.ring.size {
			oldest = wi - s.ring.size
		}
		target := ri
		if target < oldest {
			target = oldest
		}

		sl := &s.ring.slots[target%s.ring.size]
		seq1 := sl.seq.Load()
		ptr := sl.item.Load()
		seq2 := sl.seq.Load()

		if seq1 != seq2 || seq1 != target+1 {
			// The publisher overwrote this slot again while we were
			// reading it, or hasn't finished publishing it yet. Retry
			// against a fresh wi rather than trusting this read.
			if spins%ringSpinsBeforeYield == 0 {
				runtime.Gosched()
			}
			continue
		}

		s.ri.Store(target + 1)
		return Handle[T]{v: ptr}, nil
	}
}

// Clone produces an independent subscriber starting at this subscriber's
// current read position: it does not replay items already consumed by
// the cloner. The clone is registered with the same ring (the
// subscriber count is incremented).
func (s *Subscriber[T]) Clone() *Subscriber[T] {
	clone := &Subscriber[T]{ring: s.ring}
	clone.ri.Store(s.ri.Load())
	s.ring.subscribers.Add(1)
	return clone
}

// Close drops this subscriber, decrementing the ring's live subscriber
// count. If this was the last subscriber, the publisher's next
// Broadcast returns ErrNoSubscribers. Close is idempotent.
func (s *Subscriber[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.ring.subscribers.Add(-1)
	}
}
