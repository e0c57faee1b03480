package events

import "github.com/barkeepapp/barkeep/internal/logging"

type HotkeyTracer struct{}

var Hotkey = HotkeyTracer{}

func (HotkeyTracer) Registered(id uint32, combination string) {
	logging.Trace("hotkey.registered", map[string]interface{}{"id": id, "combination": combination})
}

func (HotkeyTracer) Unregistered(id uint32) {
	logging.Trace("hotkey.unregistered", map[string]interface{}{"id": id})
}

func (HotkeyTracer) RegisterFailed(combination string, status int32) {
	logging.Trace("hotkey.register.failed", map[string]interface{}{
		"combination": combination,
		"status":      status,
	})
}

func (HotkeyTracer) Suspended(count int) {
	logging.Trace("hotkey.suspended", map[string]interface{}{"count": count})
}

func (HotkeyTracer) Resumed(count int) {
	logging.Trace("hotkey.resumed", map[string]interface{}{"count": count})
}

func (HotkeyTracer) Fired(id uint32, kind string) {
	logging.Trace("hotkey.fired", map[string]interface{}{"id": id, "kind": kind})
}

func (HotkeyTracer) Unhandled(id uint32) {
	logging.Trace("hotkey.unhandled", map[string]interface{}{"id": id})
}
