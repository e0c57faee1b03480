package action

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/hotkey"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/section"
)

// RehideSuppressor skips the next auto-rehide cycle, so items revealed by a
// hotkey are not immediately re-hidden by a stray pointer move.
type RehideSuppressor interface {
	SuspendOnce()
}

// Dispatcher owns the action→hotkey table. Hotkey callbacks arrive on the
// OS path; the dispatcher marshals every handler body through run, which the
// embedder points at the engine loop.
type Dispatcher struct {
	registry *hotkey.Registry
	sections *section.Manager
	rehide   RehideSuppressor
	run      func(func())

	handlers map[Name]func()
	bindings map[Name]uint32
}

func NewDispatcher(registry *hotkey.Registry, sections *section.Manager, rehide RehideSuppressor, run func(func())) *Dispatcher {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	return &Dispatcher{
		registry: registry,
		sections: sections,
		rehide:   rehide,
		run:      run,
		handlers: make(map[Name]func()),
		bindings: make(map[Name]uint32),
	}
}

// SetHandler injects the body for a non-section action. Section toggles are
// built in.
func (d *Dispatcher) SetHandler(name Name, fn func()) {
	d.handlers[name] = fn
}

// Bind registers a hotkey for the action, replacing any previous binding.
// Configuration errors (reserved or refused combinations) surface
// synchronously; nothing is retried.
func (d *Dispatcher) Bind(name Name, combination hotkey.KeyCombination) error {
	if !Valid(name) {
		return fmt.Errorf("bind: unknown action %q", name)
	}
	if err := d.Unbind(name); err != nil {
		return err
	}

	id, err := d.registry.Register(combination, bridge.KeyDown, func() {
		d.run(func() { d.Fire(name) })
	})
	if err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	d.bindings[name] = id

	// A section-toggle hotkey is only live while its marker is attached.
	if sectionName, ok := sectionFor(name); ok {
		if s, ok := d.sections.Section(sectionName); ok {
			if err := s.BindHotkey(d.registry.NewHandle(id)); err != nil {
				return fmt.Errorf("gate %s hotkey: %w", name, err)
			}
		}
	}
	return nil
}

// Unbind releases the action's hotkey if one is bound.
func (d *Dispatcher) Unbind(name Name) error {
	id, ok := d.bindings[name]
	if !ok {
		return nil
	}
	delete(d.bindings, name)
	if sectionName, ok := sectionFor(name); ok {
		if s, ok := d.sections.Section(sectionName); ok {
			s.BindHotkey(nil)
		}
	}
	return d.registry.Unregister(id)
}

// UnbindAll clears the whole table, used on config reload.
func (d *Dispatcher) UnbindAll() error {
	for _, name := range Names() {
		if err := d.Unbind(name); err != nil {
			return err
		}
	}
	return nil
}

// Bound reports whether the action currently has a hotkey.
func (d *Dispatcher) Bound(name Name) bool {
	_, ok := d.bindings[name]
	return ok
}

// Fire executes the action body. Must run on the engine loop.
func (d *Dispatcher) Fire(name Name) {
	events.Action.Fired(string(name))
	switch name {
	case ToggleHiddenSection:
		d.toggleSection(section.Hidden)
	case ToggleAlwaysHiddenSection:
		d.toggleSection(section.AlwaysHidden)
	default:
		handler, ok := d.handlers[name]
		if !ok {
			events.Action.Unbound(string(name))
			return
		}
		handler()
	}
}

func (d *Dispatcher) toggleSection(name section.Name) {
	s, ok := d.sections.Section(name)
	if !ok {
		events.Action.Unbound(string(name))
		return
	}
	wasHidden := s.IsHidden()
	s.Toggle()
	// Revealing a section suspends auto-rehide for one interaction cycle.
	if wasHidden && !s.IsHidden() && d.rehide != nil {
		d.rehide.SuspendOnce()
	}
}

func sectionFor(name Name) (section.Name, bool) {
	switch name {
	case ToggleHiddenSection:
		return section.Hidden, true
	case ToggleAlwaysHiddenSection:
		return section.AlwaysHidden, true
	}
	return "", false
}
