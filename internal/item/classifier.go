package item

import (
	"sort"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/windows"
)

// Partition buckets live items by section, each slice ordered left to right.
// Always produced whole; never patched incrementally.
type Partition struct {
	Visible      []Item
	Hidden       []Item
	AlwaysHidden []Item
}

// Counts summarizes the partition for trace logging.
func (p Partition) Counts() map[string]int {
	return map[string]int{
		"visible":      len(p.Visible),
		"hidden":       len(p.Hidden),
		"alwaysHidden": len(p.AlwaysHidden),
	}
}

// Total returns the number of classified items.
func (p Partition) Total() int {
	return len(p.Visible) + len(p.Hidden) + len(p.AlwaysHidden)
}

// All returns the partition flattened left to right: alwaysHidden, hidden,
// then visible, matching the strip's physical order.
func (p Partition) All() []Item {
	out := make([]Item, 0, p.Total())
	out = append(out, p.AlwaysHidden...)
	out = append(out, p.Hidden...)
	out = append(out, p.Visible...)
	return out
}

// windowServerOwner names the process whose windows are never items.
const windowServerOwner = "Window Server"

// perDesktopDuplicates are system-owned windows the OS silently clones per
// virtual desktop. Only one is ever interactable; classifying the clones
// would double-count them.
var perDesktopDuplicates = map[string]map[string]bool{
	"Control Center": {
		"AudioVideoModule": true,
		"FaceTime":         true,
	},
}

// Filter reduces a raw snapshot to classifiable items, sorted ascending by
// horizontal midpoint. Excluded: the daemon's own markers, window-server
// windows, per-desktop duplicates, and untitled ghosts (off screen or fully
// transparent) left behind by desktop switches.
func Filter(snapshot []windows.Window, ownPID int32) []Item {
	items := make([]Item, 0, len(snapshot))
	for _, w := range snapshot {
		if w.OwnerPID == ownPID || w.OwnerName == windowServerOwner {
			continue
		}
		if perDesktopDuplicates[w.OwnerName][w.Title] {
			continue
		}
		if (!w.OnScreen || w.Alpha == 0) && w.Title == "" {
			continue
		}
		items = append(items, FromWindow(w))
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Frame.MidX() < items[b].Frame.MidX()
	})
	return items
}

// Classify partitions sorted items using divider midpoints as cut points.
// alwaysHiddenDivider is nil while that section is disabled, folding its
// items into hidden.
func Classify(items []Item, hiddenDivider geometry.Rect, alwaysHiddenDivider *geometry.Rect) Partition {
	var p Partition
	hiddenMid := hiddenDivider.MidX()
	for _, it := range items {
		mid := it.Frame.MidX()
		switch {
		case mid > hiddenMid:
			p.Visible = append(p.Visible, it)
		case alwaysHiddenDivider != nil && mid < alwaysHiddenDivider.MidX():
			p.AlwaysHidden = append(p.AlwaysHidden, it)
		default:
			p.Hidden = append(p.Hidden, it)
		}
	}
	return p
}
