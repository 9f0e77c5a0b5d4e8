// Package handle implements the uniform "completion handle" the registry
// stores per task: either a live OS process or an already-finished marker,
// so the flow executor can drain both the same way without the original's
// dummy echo process (spec §9, Design Note 3).
package handle

import (
	"context"
	"os/exec"
	"sync"
)

// Handle is the sum type ProcessHandle | AlreadyFinished.
type Handle struct {
	cmd  *exec.Cmd // nil for an AlreadyFinished handle
	done chan struct{}

	mu      sync.Mutex
	success bool
	waitErr error
}

// FromCmd wraps an already-started *exec.Cmd. A background goroutine calls
// cmd.Wait and records the terminal status, closing done so every other
// goroutine blocked in Wait or TryStatus observes it without polling.
func FromCmd(cmd *exec.Cmd) *Handle {
	h := &Handle{cmd: cmd, done: make(chan struct{})}
	go h.awaitCmd()
	return h
}

// AlreadyFinished returns a handle that is immediately terminal and
// successful, for operations (Apply-env, the Image build's synthetic
// completion step) that have nothing left to wait on.
func AlreadyFinished() *Handle {
	return Finished(true)
}

// Failed returns a handle that is immediately terminal and unsuccessful,
// for a task that never reached Dispatching (a blocked parent-wait, a
// missing blueprint, ...). Publishing this instead of no handle at all lets
// any further descendants observe the failure through the same registry
// broadcast instead of waiting forever on an id that would otherwise never
// appear.
func Failed() *Handle {
	return Finished(false)
}

// Finished returns an immediately terminal handle with the given outcome.
func Finished(success bool) *Handle {
	h := &Handle{done: make(chan struct{}), success: success}
	close(h.done)
	return h
}

func (h *Handle) awaitCmd() {
	err := h.cmd.Wait()
	h.mu.Lock()
	if err == nil {
		h.success = true
	} else if _, isExitErr := err.(*exec.ExitError); isExitErr {
		h.success = false
	} else {
		h.waitErr = err
	}
	h.mu.Unlock()
	close(h.done)
}

// Wait blocks until the handle reaches terminal status, returning whether it
// succeeded. It returns ctx.Err() if ctx is cancelled first, and a non-nil
// error if the underlying wait syscall itself failed (spec's Io/WaitFailure
// kinds, left for the caller to classify).
func (h *Handle) Wait(ctx context.Context) (success bool, err error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.success, h.waitErr
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// TryStatus is a non-blocking peek: done reports whether the handle has
// reached terminal status yet; success and err are only meaningful when
// done is true.
func (h *Handle) TryStatus() (success bool, done bool, err error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.success, true, h.waitErr
	default:
		return false, false, nil
	}
}

// Done returns the channel that closes when the handle reaches terminal
// status, letting callers compose it into their own select statements.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
