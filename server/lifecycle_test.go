package server

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blockberries/cellcodec"
)

func TestLifecycleGuard_HappyPath(t *testing.T) {
	g := NewLifecycleGuard()
	if !g.IsServing() {
		t.Fatal("expected Serving on creation")
	}

	for i := 0; i < 3; i++ {
		if err := g.Acquire(); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		g.Release()
	}

	if !g.Close() {
		t.Fatal("expected first Close to perform the transition")
	}
	if g.State() != "Closed" {
		t.Fatalf("expected Closed, got %s", g.State())
	}
}

func TestLifecycleGuard_AcquireAfterClose(t *testing.T) {
	g := NewLifecycleGuard()
	g.Close()

	if err := g.Acquire(); !errors.Is(err, cellcodec.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if g.Close() {
		t.Fatal("expected second Close to report false")
	}
}

func TestLifecycleGuard_CloseWaitsForInflight(t *testing.T) {
	g := NewLifecycleGuard()
	if err := g.Acquire(); err != nil {
		t.Fatal(err)
	}

	closed := make(chan struct{})
	go func() {
		g.Close()
		close(closed)
	}()

	// Close must not finish while the call is in flight.
	deadline := time.After(2 * time.Second)
	for g.State() != "Closing" {
		select {
		case <-deadline:
			t.Fatalf("expected Closing, got %s", g.State())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	select {
	case <-closed:
		t.Fatal("Close returned before in-flight call released")
	case <-time.After(20 * time.Millisecond):
	}

	if err := g.Acquire(); !errors.Is(err, cellcodec.ErrClosed) {
		t.Fatalf("expected ErrClosed while closing, got %v", err)
	}

	g.Release()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after release")
	}
	if g.State() != "Closed" {
		t.Fatalf("expected Closed, got %s", g.State())
	}
}

func TestLifecycleGuard_ConcurrentAcquire(t *testing.T) {
	g := NewLifecycleGuard()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(); err != nil {
				return
			}
			g.Release()
		}()
	}
	g.Close()
	wg.Wait()

	if g.IsServing() {
		t.Fatal("expected guard to be closed")
	}
}

func TestLifecycleState_String(t *testing.T) {
	if s := lifecycleState(9).String(); s != "unknown(9)" {
		t.Fatalf("unexpected %q", s)
	}
}
