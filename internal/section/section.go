// Package section groups menu-bar items into contiguous hide/show runs, each
// bounded by a self-owned marker window.
package section

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/logging"
	"github.com/barkeepapp/barkeep/internal/logging/events"
)

// Name identifies a section. Physical nesting left to right is
// alwaysHidden, hidden, visible.
type Name string

const (
	Visible      Name = "visible"
	Hidden       Name = "hidden"
	AlwaysHidden Name = "alwaysHidden"
)

// Names lists sections in their physical left-to-right order.
func Names() []Name {
	return []Name{AlwaysHidden, Hidden, Visible}
}

// HotkeyBinding is the section's view of a bound hotkey. Bindings stay owned
// by the hotkey registry; the section only gates whether they are live.
type HotkeyBinding interface {
	Enable() error
	Disable() error
}

// Section couples one control item with an enablement flag and an optional
// hotkey binding.
type Section struct {
	name        Name
	controlItem *ControlItem
	enabled     bool
	binding     HotkeyBinding
}

// New builds a section around its control item. The visible section is
// always enabled; that invariant is enforced in SetEnabled.
func New(name Name, controlItem *ControlItem) *Section {
	s := &Section{
		name:        name,
		controlItem: controlItem,
		enabled:     true,
	}
	controlItem.OnVisibilityChange(s.markerVisibilityChanged)
	return s
}

func (s *Section) Name() Name                { return s.name }
func (s *Section) ControlItem() *ControlItem { return s.controlItem }
func (s *Section) IsEnabled() bool           { return s.enabled }

// IsHidden projects the control item state. The visible section is never
// hidden.
func (s *Section) IsHidden() bool {
	if s.name == Visible {
		return false
	}
	return s.controlItem.State() == HideItems
}

// Hide collapses the section's items off the strip. Idempotent.
func (s *Section) Hide() {
	if s.name == Visible {
		return
	}
	s.controlItem.SetState(HideItems)
}

// Show restores the section's items. Idempotent.
func (s *Section) Show() {
	s.controlItem.SetState(ShowItems)
}

// Toggle flips between hidden and shown.
func (s *Section) Toggle() {
	if s.IsHidden() {
		s.Show()
	} else {
		s.Hide()
	}
}

// SetEnabled attaches or detaches the section's marker. Disabling the
// visible section is refused; the strip always has its leading marker.
func (s *Section) SetEnabled(enabled bool) error {
	if s.name == Visible && !enabled {
		return nil
	}
	if enabled == s.enabled {
		return nil
	}
	s.enabled = enabled
	events.Section.Enabled(string(s.name), enabled)
	if enabled {
		return s.controlItem.Attach()
	}
	return s.controlItem.Detach()
}

// BindHotkey associates the section with a registry binding. The binding is
// only live while the section's marker is attached.
func (s *Section) BindHotkey(binding HotkeyBinding) error {
	s.binding = binding
	if binding == nil {
		return nil
	}
	if s.controlItem.IsVisible() {
		return binding.Enable()
	}
	return binding.Disable()
}

func (s *Section) markerVisibilityChanged(visible bool) {
	if s.binding == nil {
		return
	}
	var err error
	if visible {
		err = s.binding.Enable()
	} else {
		err = s.binding.Disable()
	}
	if err != nil {
		logging.Error(fmt.Errorf("gate %s hotkey: %w", s.name, err))
	}
}
