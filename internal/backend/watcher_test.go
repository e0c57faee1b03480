package backend

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/testutil"
	"github.com/barkeepapp/barkeep/internal/windows"
)

func TestWatcherEmitsInitialSnapshot(t *testing.T) {
	provider := testutil.NewFakeProvider(windows.Window{
		ID:       7,
		Title:    "Item-0",
		Frame:    geometry.Rect{X: 100, Width: 30, Height: 24},
		OnScreen: true,
	})
	w := NewWatcher(provider, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	select {
	case evt := <-w.Events():
		if evt.Err != nil {
			t.Fatalf("unexpected error: %v", evt.Err)
		}
		if len(evt.Snapshot) != 1 || evt.Snapshot[0].ID != 7 {
			t.Fatalf("unexpected snapshot: %#v", evt.Snapshot)
		}
	case <-time.After(time.Second):
		t.Fatalf("no initial snapshot emitted")
	}
}

func TestWatcherStopsCleanly(t *testing.T) {
	provider := testutil.NewFakeProvider()
	w := NewWatcher(provider, 5*time.Millisecond)

	<-w.Events()
	w.Stop()
	w.Wait()

	for range w.Events() {
		// Drain anything buffered before the close.
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("debounced burst ran %d times, want 1", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("stopped debouncer still ran %d times", got)
	}
}
