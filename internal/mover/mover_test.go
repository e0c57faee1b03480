package mover

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/windows"
)

type fakeWorld struct {
	mu           sync.Mutex
	frames       map[uint32]geometry.Rect
	moveCalls    map[uint32]int
	unresponsive map[int32]bool
	// applyAfter delays the effect of a move until the nth request,
	// simulating slow window-server settlement. 0 applies immediately.
	applyAfter int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		frames:       make(map[uint32]geometry.Rect),
		moveCalls:    make(map[uint32]int),
		unresponsive: make(map[int32]bool),
	}
}

func (w *fakeWorld) place(id uint32, x float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames[id] = geometry.Rect{X: x, Y: 0, Width: 30, Height: 24}
}

func (w *fakeWorld) MoveMenuBarItem(id uint32, originX float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.moveCalls[id]++
	if w.moveCalls[id] >= w.applyAfter {
		frame := w.frames[id]
		frame.X = originX
		w.frames[id] = frame
	}
	return nil
}

func (w *fakeWorld) IsProcessResponsive(pid int32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.unresponsive[pid]
}

func (w *fakeWorld) List() ([]windows.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]windows.Window, 0, len(w.frames))
	for id, frame := range w.frames {
		out = append(out, windows.Window{ID: id, Frame: frame, OnScreen: true, Title: "item"})
	}
	return out, nil
}

func (w *fakeWorld) calls(id uint32) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveCalls[id]
}

func testItem(id uint32, x float64) item.Item {
	return item.Item{
		WindowID: id,
		OwnerPID: int32(id) + 100,
		Title:    "item",
		Frame:    geometry.Rect{X: x, Y: 0, Width: 30, Height: 24},
		OnScreen: true,
		Movable:  true,
	}
}

func newTestMover(world *fakeWorld) *Mover {
	m := New(world, world)
	m.SettleDelay = time.Millisecond
	m.MaxAttempts = 5
	return m
}

func TestMoveNonMovableFailsWithoutRepositionCalls(t *testing.T) {
	world := newFakeWorld()
	m := newTestMover(world)

	it := testItem(1, 200)
	it.Movable = false
	world.place(1, 200)

	err := m.Move(context.Background(), it, RightOf(testItem(2, 400)))

	var notMovable *NotMovableError
	if !errors.As(err, &notMovable) {
		t.Fatalf("expected NotMovableError, got %v", err)
	}
	if world.calls(1) != 0 {
		t.Fatalf("expected zero reposition calls, got %d", world.calls(1))
	}
}

func TestMoveUnresponsiveOwnerFailsImmediately(t *testing.T) {
	world := newFakeWorld()
	m := newTestMover(world)

	it := testItem(1, 200)
	world.place(1, 200)
	world.unresponsive[it.OwnerPID] = true

	err := m.Move(context.Background(), it, RightOf(testItem(2, 400)))

	var unresponsive *UnresponsiveError
	if !errors.As(err, &unresponsive) {
		t.Fatalf("expected UnresponsiveError, got %v", err)
	}
	if world.calls(1) != 0 {
		t.Fatalf("expected zero reposition calls, got %d", world.calls(1))
	}
}

func TestMoveSucceedsOnFirstSettledVerification(t *testing.T) {
	world := newFakeWorld()
	m := newTestMover(world)

	it := testItem(1, 200)
	world.place(1, 200)

	target := testItem(2, 400)
	if err := m.Move(context.Background(), it, RightOf(target)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if world.calls(1) != 1 {
		t.Fatalf("expected a single reposition call, got %d", world.calls(1))
	}

	frame := world.frames[1]
	if want := target.Frame.MaxX(); frame.X != want {
		t.Fatalf("item at %v, want %v", frame.X, want)
	}
}

func TestMoveRetriesUntilSettled(t *testing.T) {
	world := newFakeWorld()
	world.applyAfter = 3
	m := newTestMover(world)

	it := testItem(1, 200)
	world.place(1, 200)

	if err := m.Move(context.Background(), it, LeftOf(testItem(2, 400))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if world.calls(1) != 3 {
		t.Fatalf("expected 3 reposition calls, got %d", world.calls(1))
	}
}

func TestMoveTimesOutAfterBoundedAttempts(t *testing.T) {
	world := newFakeWorld()
	world.applyAfter = 100 // never within budget
	m := newTestMover(world)
	m.MaxAttempts = 3

	it := testItem(1, 200)
	world.place(1, 200)

	err := m.Move(context.Background(), it, RightOf(testItem(2, 400)))

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeout.Attempts != 3 {
		t.Fatalf("timeout after %d attempts, want 3", timeout.Attempts)
	}
	if world.calls(1) != 3 {
		t.Fatalf("expected 3 reposition calls, got %d", world.calls(1))
	}
}

func TestMoveCancellationStopsRetrying(t *testing.T) {
	world := newFakeWorld()
	world.applyAfter = 100
	m := newTestMover(world)
	m.SettleDelay = 50 * time.Millisecond

	it := testItem(1, 200)
	world.place(1, 200)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := m.Move(ctx, it, RightOf(testItem(2, 400)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if world.calls(1) != 1 {
		t.Fatalf("expected retrying to stop after cancellation, got %d calls", world.calls(1))
	}
}

func TestMovesNeverInterleave(t *testing.T) {
	world := newFakeWorld()
	world.applyAfter = 100
	m := newTestMover(world)
	m.SettleDelay = 30 * time.Millisecond
	m.MaxAttempts = 2

	world.place(1, 200)
	world.place(2, 300)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- m.Move(context.Background(), testItem(1, 200), RightOf(testItem(3, 400)))
	}()
	<-started
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.Move(ctx, testItem(2, 300), RightOf(testItem(3, 400)))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second move to give up waiting, got %v", err)
	}
	if world.calls(2) != 0 {
		t.Fatalf("second move must not issue reposition calls while first is in flight, got %d", world.calls(2))
	}

	<-done
}

func TestAnchorFallsBackToMarker(t *testing.T) {
	marker := item.Item{WindowID: 99, Title: "marker", Frame: geometry.Rect{X: 300, Width: 25, Height: 24}}

	anchor, usedMarker := Anchor(nil, marker)
	if !usedMarker || anchor.WindowID != 99 {
		t.Fatalf("expected marker anchor for empty section, got %v used=%v", anchor.WindowID, usedMarker)
	}

	items := []item.Item{testItem(1, 100), testItem(2, 200)}
	anchor, usedMarker = Anchor(items, marker)
	if usedMarker || anchor.WindowID != 2 {
		t.Fatalf("expected outermost item anchor, got %v used=%v", anchor.WindowID, usedMarker)
	}
}
