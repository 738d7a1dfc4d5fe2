package broadcast

import "sync"

// wakeSet is the wakeup-layer adapter shared by the sync and async
// wrappers: "notify a waiter" / "wait" factored out as a small notify/wait
// adapter, kept separate from ring correctness so the wakeup strategy stays
// swappable. Each registered target is a capacity-1 channel; arming it is
// a non-blocking send, so waking an
// already-armed (or already-consumed-but-not-yet-rearmed) target is a
// cheap no-op rather than a blocking or erroring operation — the
// idempotence the sync and async wrappers both require.
//
// A counting semaphore such as golang.org/x/sync/semaphore was
// considered for this role and rejected: its Release panics if called
// without a matching prior Acquire, which is exactly what an idempotent
// "wake, maybe nobody's listening yet" signal needs to tolerate. A
// capacity-1 channel gives that for free.
type wakeSet struct {
	mu      sync.Mutex
	nextID  uint64
	targets map[uint64]chan struct{}
}

func newWakeSet() *wakeSet {
	return &wakeSet{targets: make(map[uint64]chan struct{})}
}

// register adds a new waiter and returns its id (for unregister) and its
// signal channel.
func (w *wakeSet) register() (uint64, chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	ch := make(chan struct{}, 1)
	w.targets[id] = ch
	return id, ch
}

func (w *wakeSet) unregister(id uint64) {
	w.mu.Lock()
	delete(w.targets, id)
	w.mu.Unlock()
}

// wakeAll arms every registered waiter's signal channel. Safe to call
// whether or not anyone is currently parked on it.
func (w *wakeSet) wakeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.targets {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
