package syncprim

import "sync/atomic"

// spinMutex is a bit-lock guarding the Mutex's inner critical section: the
// handful of instructions needed to evaluate an acquisition predicate, run
// its compare-and-swap, and (on failure) enqueue onto a gate. The section it
// protects is always O(1), so spinning beats parking a second goroutine.
type spinMutex struct {
	_     noCopy
	state atomic.Uint32
}

const spinLocked = 1

func (l *spinMutex) Lock() {
	if l.state.CompareAndSwap(0, spinLocked) {
		return
	}
	l.lockSlow()
}

func (l *spinMutex) lockSlow() {
	var spins int
	for !l.state.CompareAndSwap(0, spinLocked) {
		delay(&spins)
	}
}

func (l *spinMutex) Unlock() {
	l.state.Store(0)
}
