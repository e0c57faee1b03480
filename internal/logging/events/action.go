package events

import "github.com/barkeepapp/barkeep/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Fired(name string) {
	logging.Trace("action.fired", map[string]interface{}{"name": name})
}

func (ActionTracer) Unbound(name string) {
	logging.Trace("action.unbound", map[string]interface{}{"name": name})
}

func (ActionTracer) RehideSuspended() {
	logging.Trace("action.rehide.suspended", nil)
}

func (ActionTracer) Error(name string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"name": name, "error": err.Error()})
}
