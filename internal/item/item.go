// Package item models third-party menu-bar items and classifies them into
// sections by position relative to the daemon's divider markers.
package item

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/windows"
)

// Item is an immutable snapshot of one menu-bar item. A stale Item is
// replaced by re-fetching, never patched.
type Item struct {
	WindowID  uint32
	OwnerPID  int32
	OwnerName string
	Title     string
	Frame     geometry.Rect
	OnScreen  bool
	Movable   bool
}

// immovableItems are system items the window server refuses to relocate,
// keyed by owner name then window title.
var immovableItems = map[string]map[string]bool{
	"Control Center": {
		"BentoBox": true,
		"Clock":    true,
	},
}

// FromWindow derives an Item from a raw snapshot entry. ownPID identifies
// the daemon's own process so its markers never classify as items.
func FromWindow(w windows.Window) Item {
	return Item{
		WindowID:  w.ID,
		OwnerPID:  w.OwnerPID,
		OwnerName: w.OwnerName,
		Title:     w.Title,
		Frame:     w.Frame,
		OnScreen:  w.OnScreen,
		Movable:   !immovableItems[w.OwnerName][w.Title],
	}
}

// DisplayName returns a human-readable name for alerts and the search picker.
func (i Item) DisplayName() string {
	if i.Title != "" {
		return i.Title
	}
	if i.OwnerName != "" {
		return i.OwnerName
	}
	return fmt.Sprintf("window %d", i.WindowID)
}

// Equal reports identity. Window IDs are stable for the life of the item;
// frames and titles are not.
func (i Item) Equal(other Item) bool {
	return i.WindowID == other.WindowID
}
