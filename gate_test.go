package syncprim

import (
	"sync"
	"testing"
	"time"
)

func TestGate_SignalWakesOneWaiter(t *testing.T) {
	var g gate

	w1 := g.enqueue()
	w2 := g.enqueue()

	done1 := make(chan struct{})
	done2 := make(chan struct{})
	go func() { w1.park(); close(done1) }()
	go func() { w2.park(); close(done2) }()

	time.Sleep(10 * time.Millisecond)
	g.signal()

	// A closed channel stays ready, so the one already received from is
	// dropped (set to nil) before checking whether the other woke too.
	woken := 0
	select {
	case <-done1:
		woken++
		done1 = nil
	case <-done2:
		woken++
		done2 = nil
	case <-time.After(200 * time.Millisecond):
		t.Fatal("signal woke nobody")
	}

	select {
	case <-done1:
		woken++
	case <-done2:
		woken++
	case <-time.After(20 * time.Millisecond):
		// expected: signal only wakes one waiter
	}
	if woken != 1 {
		t.Fatalf("expected exactly one waiter woken, got %d", woken)
	}

	g.signal()
	select {
	case <-done1:
	case <-done2:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("second signal woke nobody")
	}
}

func TestGate_BroadcastWakesEveryone(t *testing.T) {
	var g gate
	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		w := g.enqueue()
		go func() {
			defer wg.Done()
			w.park()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	g.broadcast()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("broadcast did not wake every waiter")
	}
}

func TestGate_SignalOnEmptyGateIsNoOp(t *testing.T) {
	var g gate
	g.signal()
	g.broadcast()
}
