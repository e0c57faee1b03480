package events

import "github.com/barkeepapp/barkeep/internal/logging"

type SectionTracer struct{}

var Section = SectionTracer{}

func (SectionTracer) Toggle(name string, hidden bool) {
	logging.Trace("section.toggle", map[string]interface{}{"name": name, "hidden": hidden})
}

func (SectionTracer) Enabled(name string, enabled bool) {
	logging.Trace("section.enabled", map[string]interface{}{"name": name, "enabled": enabled})
}

func (SectionTracer) MarkerMissing(name string) {
	logging.Trace("section.marker.missing", map[string]interface{}{"name": name})
}

func (SectionTracer) PositionRestored(name string, position float64) {
	logging.Trace("section.position.restored", map[string]interface{}{"name": name, "position": position})
}

func (SectionTracer) MarkerCommand(name, op string, value interface{}) {
	logging.Trace("section.marker."+op, map[string]interface{}{"name": name, "value": value})
}
