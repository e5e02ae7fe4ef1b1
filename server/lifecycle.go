package server

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/blockberries/cellcodec"
)

// lifecycleState represents a state in the connection lifecycle.
type lifecycleState uint32

const (
	// stateServing: calls are admitted.
	stateServing lifecycleState = iota
	// stateClosing: Close has been called. New calls are refused while
	// in-flight calls drain.
	stateClosing
	// stateClosed: every admitted call has returned.
	stateClosed
)

func (s lifecycleState) String() string {
	switch s {
	case stateServing:
		return "Serving"
	case stateClosing:
		return "Closing"
	case stateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// LifecycleGuard admits calls until Close and lets Close wait for the
// calls it admitted. Both the in-process server and remote clients use
// it to give Connection.Close the same semantics.
type LifecycleGuard struct {
	state atomic.Uint32
	// Serializes admission against the Serving → Closing transition so
	// no call is admitted after Close starts waiting.
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

// NewLifecycleGuard creates a guard in the Serving state.
func NewLifecycleGuard() *LifecycleGuard {
	g := &LifecycleGuard{}
	g.state.Store(uint32(stateServing))
	return g
}

// State returns the current lifecycle state.
func (g *LifecycleGuard) State() string {
	return lifecycleState(g.state.Load()).String()
}

// Acquire admits one call. It returns cellcodec.ErrClosed once Close has
// been called. Every successful Acquire must be paired with Release.
func (g *LifecycleGuard) Acquire() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if lifecycleState(g.state.Load()) != stateServing {
		return cellcodec.ErrClosed
	}
	g.inflight.Add(1)
	return nil
}

// Release marks an admitted call as finished.
func (g *LifecycleGuard) Release() {
	g.inflight.Done()
}

// Close transitions Serving → Closing, waits for in-flight calls, then
// transitions to Closed. It reports whether this call performed the
// transition; later calls return false immediately.
func (g *LifecycleGuard) Close() bool {
	g.mu.Lock()
	if !g.state.CompareAndSwap(uint32(stateServing), uint32(stateClosing)) {
		g.mu.Unlock()
		return false
	}
	g.mu.Unlock()

	g.inflight.Wait()
	g.state.Store(uint32(stateClosed))
	return true
}

// IsServing returns true if the guard still admits calls.
func (g *LifecycleGuard) IsServing() bool {
	return lifecycleState(g.state.Load()) == stateServing
}
