package events

import "github.com/barkeepapp/barkeep/internal/logging"

type MoveTracer struct{}

var Move = MoveTracer{}

func (MoveTracer) Begin(op string, windowID uint32, destination float64) {
	logging.Trace("move.begin", map[string]interface{}{
		"op":          op,
		"window":      windowID,
		"destination": destination,
	})
}

func (MoveTracer) Attempt(op string, attempt int, observed float64) {
	logging.Trace("move.attempt", map[string]interface{}{
		"op":       op,
		"attempt":  attempt,
		"observed": observed,
	})
}

func (MoveTracer) End(op string, err error) {
	payload := map[string]interface{}{"op": op}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("move.end", payload)
}
