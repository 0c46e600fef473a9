package syncprim

// UpgradeToUnique promotes the calling goroutine's upgradeable hold to
// exclusive, in place. It must be called only by the current upgradeable
// holder. New shared acquirers are blocked (PENDING) the instant this
// call begins; existing shared holders are allowed to finish, and their
// completion is what eventually wakes this call.
func (m *Mutex) UpgradeToUnique() {
	m.inner.Lock()
	for {
		old := m.state.Load()
		if m.state.CompareAndSwap(old, old|pendingBit) {
			break
		}
	}
	for m.state.Load()&readerMask != 0 {
		w := m.gate2.enqueue()
		m.inner.Unlock()
		w.park()
		m.inner.Lock()
	}
	// Simultaneously clears UPGRADER and PENDING, sets WRITER. No
	// notification needed: the mutex is now held exclusively by us
	// alone, so no other operation's predicate could be waiting on this
	// exact transition.
	m.state.Store(writerBit)
	m.inner.Unlock()
}

// UniqueToUpgrade downgrades the calling goroutine's exclusive hold to
// upgradeable, in place. It must be called only by the current exclusive
// holder. The caller already owns the mutex exclusively, so no other
// thread's state can conflict with the store itself; inner is taken only
// so the broadcast can't race a waiter's predicate check and gate1
// enqueue the way Unlock's doc comment describes.
func (m *Mutex) UniqueToUpgrade() {
	m.inner.Lock()
	m.state.Store(upgraderBit)
	m.gate1.broadcast()
	m.inner.Unlock()
}

// UniqueToShared downgrades the calling goroutine's exclusive hold to a
// single shared hold, in place. It must be called only by the current
// exclusive holder. Runs under inner for the same reason as
// UniqueToUpgrade.
func (m *Mutex) UniqueToShared() {
	m.inner.Lock()
	m.state.Store(1)
	m.gate1.broadcast()
	m.inner.Unlock()
}
