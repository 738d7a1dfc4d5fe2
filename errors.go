package broadcast

import "errors"

var (
	// ErrInvalidSize is returned by the channel factories when size is zero.
	ErrInvalidSize = errors.New("broadcast: size must be a positive integer")

	// ErrNoSubscribers is returned by Broadcast/Send when the subscriber
	// count has dropped to zero.
	ErrNoSubscribers = errors.New("broadcast: no subscribers")

	// ErrClosed is returned by Recv/Next when the publisher has closed the
	// channel and the ring has been fully drained by the caller.
	ErrClosed = errors.New("broadcast: channel closed")

	// ErrEmpty is returned by the non-blocking receive variants when there
	// is no new data and the channel is still open.
	ErrEmpty = errors.New("broadcast: no new items")
)
