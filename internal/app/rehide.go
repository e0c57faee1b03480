package app

import (
	"sync"
	"time"

	"github.com/barkeepapp/barkeep/internal/logging/events"
)

// Rehider collapses the hidden section again a fixed delay after it was
// revealed. One reveal earns one grace period; SuspendOnce skips the next
// cycle entirely, so a hotkey-driven reveal stays up until the user acts.
type Rehider struct {
	delay time.Duration
	run   func(func())
	hide  func()

	mu       sync.Mutex
	timer    *time.Timer
	skipNext bool
}

// NewRehider builds the controller. run marshals the rehide body onto the
// engine loop; hide performs the actual collapse and runs there.
func NewRehider(delay time.Duration, run func(func()), hide func()) *Rehider {
	return &Rehider{delay: delay, run: run, hide: hide}
}

// Observe is fed the hidden section's current state on every snapshot pass.
// A shown section with no pending cycle gets one scheduled; a hidden section
// clears any pending cycle.
func (r *Rehider) Observe(shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !shown {
		r.cancelLocked()
		return
	}
	if r.timer != nil {
		return
	}
	if r.skipNext {
		r.skipNext = false
		return
	}
	r.timer = time.AfterFunc(r.delay, func() {
		r.mu.Lock()
		r.timer = nil
		r.mu.Unlock()
		r.run(r.hide)
	})
}

// SuspendOnce cancels the pending cycle, or failing that, skips the next
// one. Implements action.RehideSuppressor.
func (r *Rehider) SuspendOnce() {
	r.mu.Lock()
	defer r.mu.Unlock()
	events.Action.RehideSuspended()
	if r.timer != nil {
		r.cancelLocked()
	}
	r.skipNext = true
}

// Stop cancels any pending cycle at shutdown.
func (r *Rehider) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
}

func (r *Rehider) cancelLocked() {
	if r.timer == nil {
		return
	}
	r.timer.Stop()
	r.timer = nil
}
