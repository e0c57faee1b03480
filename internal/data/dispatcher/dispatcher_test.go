package dispatcher

import (
	"errors"
	"testing"

	"github.com/barkeepapp/barkeep/internal/backend"
	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/state"
	"github.com/barkeepapp/barkeep/internal/testutil"
	"github.com/barkeepapp/barkeep/internal/windows"
)

const ownPID = 42

func itemWindow(id uint32, x float64) windows.Window {
	return windows.Window{
		ID:        id,
		OwnerPID:  int32(id) + 100,
		OwnerName: "SomeApp",
		Title:     "Item-0",
		Frame:     geometry.Rect{X: x - 15, Width: 30, Height: 24},
		OnScreen:  true,
	}
}

func TestHandleClassifiesSnapshot(t *testing.T) {
	sections, _ := testutil.NewSectionManager()
	if err := sections.Start(); err != nil {
		t.Fatalf("start sections: %v", err)
	}
	items := state.NewItemStore()
	d := New(items, sections, ownPID)

	// Dividers sit at x=100 (alwaysHidden) and x=300 (hidden).
	res := d.Handle(backend.Event{Snapshot: []windows.Window{
		itemWindow(1, 150),
		itemWindow(2, 250),
		itemWindow(3, 500),
		itemWindow(4, 700),
	}})

	if !res.ItemsUpdated {
		t.Fatalf("expected items updated")
	}
	p := items.Partition()
	if len(p.AlwaysHidden) != 1 || p.AlwaysHidden[0].WindowID != 1 {
		t.Fatalf("alwaysHidden = %#v", p.AlwaysHidden)
	}
	if len(p.Hidden) != 1 || p.Hidden[0].WindowID != 2 {
		t.Fatalf("hidden = %#v", p.Hidden)
	}
	if len(p.Visible) != 2 {
		t.Fatalf("visible = %#v", p.Visible)
	}
}

func TestHandleSkipsErrorEvents(t *testing.T) {
	sections, _ := testutil.NewSectionManager()
	if err := sections.Start(); err != nil {
		t.Fatalf("start sections: %v", err)
	}
	items := state.NewItemStore()
	d := New(items, sections, ownPID)

	d.Handle(backend.Event{Snapshot: []windows.Window{itemWindow(1, 500)}})
	res := d.Handle(backend.Event{Err: errors.New("window list unavailable")})

	if res.ItemsUpdated {
		t.Fatalf("error event must not update the cache")
	}
	if p := items.Partition(); len(p.Visible) != 1 {
		t.Fatalf("previous partition lost on error event")
	}
}

func TestHandleWaitsForMarkers(t *testing.T) {
	sections, _ := testutil.NewSectionManager()
	// Sections never started: no marker windows placed.
	items := state.NewItemStore()
	d := New(items, sections, ownPID)

	res := d.Handle(backend.Event{Snapshot: []windows.Window{itemWindow(1, 500)}})
	if res.ItemsUpdated {
		t.Fatalf("classification must wait for placed markers")
	}
}

func TestDisabledAlwaysHiddenFoldsIntoHidden(t *testing.T) {
	sections, _ := testutil.NewSectionManager()
	if err := sections.Start(); err != nil {
		t.Fatalf("start sections: %v", err)
	}
	ah, _ := sections.Section(section.AlwaysHidden)
	if err := ah.SetEnabled(false); err != nil {
		t.Fatalf("disable alwaysHidden: %v", err)
	}
	items := state.NewItemStore()
	d := New(items, sections, ownPID)

	d.Handle(backend.Event{Snapshot: []windows.Window{
		itemWindow(1, 150),
		itemWindow(2, 250),
	}})

	p := items.Partition()
	if len(p.AlwaysHidden) != 0 {
		t.Fatalf("alwaysHidden should be empty while disabled, got %#v", p.AlwaysHidden)
	}
	if len(p.Hidden) != 2 {
		t.Fatalf("expected both items folded into hidden, got %#v", p.Hidden)
	}
}
