// Package syncprim implements an upgradeable reader/writer mutex: a
// synchronization primitive with three access modes — shared (many),
// upgradeable (one, coexists with shared), and exclusive (one, alone) —
// plus atomic, race-free transitions between them. It answers the
// "read, then maybe write" problem: hold a read-side lock, discover you
// need to mutate, and promote to exclusive without a window in which
// another writer could observe stale data.
package syncprim

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Mutex is an upgradeable reader/writer mutex. The zero value is an
// unlocked Mutex ready for use; New is provided for parity with this
// package's other constructors.
//
// A Mutex must not be copied after first use.
type Mutex struct {
	_ noCopy

	// state is the packed mode word (see state.go). All reads that gate
	// further access use acquire-equivalent semantics; sync/atomic's
	// operations are already sequentially consistent, which spec §9's
	// design notes accept as a correct (if stronger-than-required)
	// substitute for fine-grained acquire/release ordering.
	state atomic.Uint32
	_     cpu.CacheLinePad

	// inner serializes the multi-step decisions that can't be expressed
	// as one atomic operation: evaluating an acquisition predicate,
	// running its CAS, and enqueueing onto a gate on failure. Padded off
	// state: under contention these two words are written by every
	// caller on almost every call, and sharing a cache line between them
	// would serialize otherwise-independent CPUs on that line.
	inner spinMutex
	_     cpu.CacheLinePad

	// gate1 wakes RLock and LockUpgrade waiters. gate2 wakes Lock
	// waiters and an UpgradeToUnique call waiting for readers to drain.
	// Each gets its own line for the same false-sharing reason.
	gate1 gate
	_     cpu.CacheLinePad
	gate2 gate
}

// New returns a new, unlocked Mutex.
func New() *Mutex {
	return &Mutex{}
}

// Lock acquires the mutex exclusively, blocking until no shared,
// upgradeable, or exclusive holder remains.
func (m *Mutex) Lock() {
	m.inner.Lock()
	for {
		s := m.state.Load()
		if s == 0 && m.state.CompareAndSwap(0, writerBit) {
			m.inner.Unlock()
			return
		}
		w := m.gate2.enqueue()
		m.inner.Unlock()
		w.park()
		m.inner.Lock()
	}
}

// Unlock releases an exclusive hold. It wakes at most one waiting
// exclusive acquirer (to avoid a thundering herd of writers) and every
// shared/upgradeable waiter, since many of those may now proceed
// together.
//
// The state mutation and the gate signals run under inner, the same lock
// every acquirer's predicate check and gate enqueue run under (spec §4.B,
// §9): otherwise a waiter could observe a stale predicate, lose the race
// to enqueue against this release, and park after the corresponding
// signal already fired, blocking forever. Taking inner here trades a
// little throughput for closing that window, exactly the tradeoff spec §9
// sanctions ("signal under the inner mutex; correctness is unaffected,
// only throughput").
func (m *Mutex) Unlock() {
	m.inner.Lock()
	m.state.Add(negate32(writerBit))
	m.gate2.signal()
	m.gate1.broadcast()
	m.inner.Unlock()
}

// RLock acquires a shared hold, blocking while an exclusive holder is
// present or an upgrade is draining readers (PENDING set).
func (m *Mutex) RLock() {
	m.inner.Lock()
	var spins int
	for {
		s := m.state.Load()
		if !hasWriter(s) && !hasPending(s) {
			if readerCount(s) == maxReaders {
				m.inner.Unlock()
				panic(ReaderOverflowError{})
			}
			if m.state.CompareAndSwap(s, s+1) {
				m.inner.Unlock()
				return
			}
			// Another racer beat us to the CAS; re-check the
			// predicate rather than parking on gate1.
			delay(&spins)
			continue
		}
		w := m.gate1.enqueue()
		m.inner.Unlock()
		w.park()
		m.inner.Lock()
		spins = 0
	}
}

// RUnlock releases one shared hold. Runs under inner; see Unlock.
func (m *Mutex) RUnlock() {
	m.inner.Lock()
	newState := m.state.Add(negate32(1))
	oldState := newState + 1
	// The reader count reaching zero can unblock either a plain writer
	// waiting in Lock, or an upgrader draining readers in
	// UpgradeToUnique. Both kinds can be parked on gate2 at once, so
	// while PENDING is set every gate2 waiter is woken (a Lock waiter
	// re-checks and parks again); otherwise gate2 gets one wakeup.
	if readerCount(oldState) == 1 {
		if hasPending(oldState) {
			m.gate2.broadcast()
		} else {
			m.gate2.signal()
		}
	}
	m.inner.Unlock()
}

// LockUpgrade acquires an upgradeable hold, blocking while an exclusive
// or another upgradeable holder is present. An upgradeable hold coexists
// freely with shared holders.
func (m *Mutex) LockUpgrade() {
	m.inner.Lock()
	var spins int
	for {
		s := m.state.Load()
		if !hasWriter(s) && !hasUpgrader(s) {
			if m.state.CompareAndSwap(s, s|upgraderBit) {
				m.inner.Unlock()
				return
			}
			delay(&spins)
			continue
		}
		w := m.gate1.enqueue()
		m.inner.Unlock()
		w.park()
		m.inner.Lock()
		spins = 0
	}
}

// UnlockUpgrade releases an upgradeable hold. Runs under inner; see Unlock.
func (m *Mutex) UnlockUpgrade() {
	m.inner.Lock()
	newState := m.state.Add(negate32(upgraderBit))
	oldState := newState + upgraderBit
	// PENDING can't be set here (it's cleared only by a completed
	// UpgradeToUnique), so old readerCount==0 means the mutex is now
	// fully quiescent and a waiting writer may proceed.
	if readerCount(oldState) == 0 {
		m.gate2.signal()
	}
	m.gate1.broadcast()
	m.inner.Unlock()
}
