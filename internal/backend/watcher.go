// Package backend polls the window server for menu-bar snapshots and
// publishes them as events. The window server pushes nothing useful; the
// strip mutates constantly under other apps, so the daemon pulls.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/barkeepapp/barkeep/internal/windows"
)

// Event conveys a fresh snapshot or an enumeration error.
type Event struct {
	Snapshot []windows.Window
	Err      error
}

// Watcher polls the provider at a fixed interval and publishes events.
type Watcher struct {
	provider windows.Provider
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that snapshots every interval.
func NewWatcher(provider windows.Provider, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		provider: provider,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns the snapshot event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	throttle := newThrottle(w.interval / 4)

	emit := func() bool {
		throttle.wait()
		snapshot, err := w.provider.List()
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- Event{Snapshot: snapshot, Err: err}:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
