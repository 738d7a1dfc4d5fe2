// Package broadcast implements a lock-free, bounded, single-producer,
// multi-subscriber broadcast queue.
//
// A single Publisher writes items of type T into a fixed-size ring.
// Every Subscriber bound to that ring observes every item in publish
// order, unless it falls far enough behind that the oldest items it
// hasn't read are overwritten — in that case it silently skips ahead
// to the oldest item still retained. The publisher never blocks on a
// slow subscriber: broadcasting always completes in bounded time.
//
// Three constructors build a (Publisher, Subscriber) pair sharing one
// ring:
//
//   - NewChannel: the bare ring. Recv never blocks; it reports Empty.
//   - NewSyncChannel: adds thread-parking Recv for synchronous callers.
//   - NewAsyncChannel: adds a poll/notify surface for cooperative callers.
//
// Additional subscribers are produced by cloning an existing one; a
// clone starts at the cloner's current read position and does not
// replay items the cloner already consumed.
package broadcast
