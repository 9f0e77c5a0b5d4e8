// Package registry implements the shared, mutex-protected handle registry
// described in spec §3/§4.4/§5: the only mutable state shared across a
// flow's concurrently running task runners.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/itwasneo/runer/internal/handle"
	"github.com/itwasneo/runer/internal/runerr"
)

// Registry maps task id to its published handle. Insert, Get, and
// WaitForHandle are safe for concurrent use; Snapshot lets the drain loop
// iterate handles without holding the lock for the whole drain (Design
// Note 2: never await a handle while holding the registry's lock).
type Registry struct {
	mu      sync.Mutex
	handles map[int]*handle.Handle
	waiters map[int][]chan struct{}
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		handles: make(map[int]*handle.Handle),
		waiters: make(map[int][]chan struct{}),
	}
}

// Insert publishes the handle for taskID. It is an error to insert twice for
// the same id (spec §3 invariant: a handle, once inserted, is never
// replaced).
func (r *Registry) Insert(taskID int, h *handle.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handles[taskID]; exists {
		return fmt.Errorf("%w: task %d", runerr.ErrDuplicateHandle, taskID)
	}
	r.handles[taskID] = h

	for _, ch := range r.waiters[taskID] {
		close(ch)
	}
	delete(r.waiters, taskID)
	return nil
}

// Get returns the handle for taskID, if any, without blocking.
func (r *Registry) Get(taskID int) (*handle.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[taskID]
	return h, ok
}

// WaitForHandle blocks until taskID's handle is published, or ctx is done.
// It re-architects the original's 5ms polling loop (spec §4.2/§9, Design
// Note 1) as a one-shot broadcast: Insert closes every channel registered
// here for that id, waking every waiter in one step instead of having each
// waiter re-poll the map.
func (r *Registry) WaitForHandle(ctx context.Context, taskID int) (*handle.Handle, error) {
	r.mu.Lock()
	if h, ok := r.handles[taskID]; ok {
		r.mu.Unlock()
		return h, nil
	}
	ch := make(chan struct{})
	r.waiters[taskID] = append(r.waiters[taskID], ch)
	r.mu.Unlock()

	select {
	case <-ch:
		h, _ := r.Get(taskID)
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns a shallow copy of the registry's contents, taken under
// lock, so the caller can await each handle's terminal status without
// holding the registry lock for the duration (spec §5's shared-resource
// policy: hold times must be short).
func (r *Registry) Snapshot() map[int]*handle.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]*handle.Handle, len(r.handles))
	for id, h := range r.handles {
		out[id] = h
	}
	return out
}

// Len reports how many handles are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
