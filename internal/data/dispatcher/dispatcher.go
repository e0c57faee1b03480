// Package dispatcher turns backend snapshot events into whole-value
// replacements of the classified item cache.
package dispatcher

import (
	"github.com/barkeepapp/barkeep/internal/backend"
	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/state"
)

type Result struct {
	ItemsUpdated bool
}

// Dispatcher classifies snapshots against the current divider positions.
// Handle must run on the engine loop; it reads marker frames and replaces
// the item store.
type Dispatcher struct {
	items    state.ItemStore
	sections *section.Manager
	ownPID   int32
}

func New(items state.ItemStore, sections *section.Manager, ownPID int32) *Dispatcher {
	return &Dispatcher{items: items, sections: sections, ownPID: ownPID}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		events.Item.SnapshotError(evt.Err)
		return res
	}

	hidden, alwaysHidden, ok := d.sections.DividerFrames()
	if !ok {
		// Markers not placed yet; keep the previous partition intact rather
		// than publish a guess.
		return res
	}

	items := item.Filter(evt.Snapshot, d.ownPID)
	partition := item.Classify(items, hidden, alwaysHidden)
	d.items.SetPartition(partition)
	events.Item.Classified(partition.Counts())
	res.ItemsUpdated = true
	return res
}
