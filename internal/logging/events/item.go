package events

import "github.com/barkeepapp/barkeep/internal/logging"

type ItemTracer struct{}

var Item = ItemTracer{}

func (ItemTracer) Classified(counts map[string]int) {
	logging.Trace("item.classified", map[string]interface{}{"counts": counts})
}

func (ItemTracer) SnapshotError(err error) {
	if err == nil {
		return
	}
	logging.Trace("item.snapshot.error", map[string]interface{}{"error": err.Error()})
}

func (ItemTracer) TempShown(windowID uint32) {
	logging.Trace("item.tempshown", map[string]interface{}{"window": windowID})
}

func (ItemTracer) TempShownCleared(windowID uint32) {
	logging.Trace("item.tempshown.cleared", map[string]interface{}{"window": windowID})
}
