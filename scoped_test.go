package syncprim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScopedUpgrade_AutoDowngrades(t *testing.T) {
	// Scenario 6: a scoped upgrade auto-downgrades on exit, and a
	// concurrent RLock succeeds afterward.
	m := New()
	m.LockUpgrade()

	func() {
		su := NewScopedUpgrade(m)
		defer su.Close()
		assert.Equal(t, writerBit, m.state.Load())
	}()

	assert.Equal(t, upgraderBit, m.state.Load())

	unblocked := make(chan struct{})
	go func() {
		m.RLock()
		close(unblocked)
	}()

	select {
	case <-unblocked:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("RLock never proceeded after the scoped upgrade exited")
	}
	m.RUnlock()
	m.UnlockUpgrade()
}

func TestScopedUpgrade_DowngradesOnPanic(t *testing.T) {
	m := New()
	m.LockUpgrade()

	func() {
		defer func() { _ = recover() }()
		su := NewScopedUpgrade(m)
		defer su.Close()
		panic("boom")
	}()

	assert.Equal(t, upgraderBit, m.state.Load())
	m.UnlockUpgrade()
}
