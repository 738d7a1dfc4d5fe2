package broadcast

// NewChannel constructs a bare channel: a ring of the given size plus
// one bound Publisher and one bound Subscriber. size must be a positive
// integer; size == 0 returns ErrInvalidSize.
//
// Further subscribers are obtained by cloning the returned Subscriber,
// not by calling NewChannel again.
func NewChannel[T any](size uint64) (*Publisher[T], *Subscriber[T], error) {
	ring, err := newRing[T](size)
	if err != nil {
		return nil, nil, err
	}
	ring.subscribers.Store(1)

	pub := &Publisher[T]{ring: ring}
	sub := &Subscriber[T]{ring: ring}
	return pub, sub, nil
}
