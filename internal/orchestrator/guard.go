package orchestrator

import (
	"context"
	"sync"
)

// CancelGuard couples a cancellation flag with the active flow's context
// cancel function. The flag is what step code polls between external
// calls; the context is what aborts an in-flight HTTP request.
type CancelGuard struct {
	mu        sync.Mutex
	cancelled bool
	cancel    context.CancelFunc
}

// Arm derives a cancellable context for a new flow, clearing the flag
// and superseding any previous flow's context.
func (g *CancelGuard) Arm(parent context.Context) context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	g.cancelled = false
	return ctx
}

// Cancel sets the flag and aborts the armed context.
func (g *CancelGuard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = true
	if g.cancel != nil {
		g.cancel()
	}
}

// Cancelled reports whether Cancel was called since the last Arm.
func (g *CancelGuard) Cancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}
