package section

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/geometry"
)

// HostFactory builds the marker host for one section.
type HostFactory func(name Name) Host

// Manager owns the three sections and offers ownership-free lookups by name,
// so nothing holds a back-reference to anything else.
type Manager struct {
	sections map[Name]*Section
}

// NewManager creates the three sections with their control items. Markers
// are not attached yet; call Start.
func NewManager(hosts HostFactory, positions PositionStore) *Manager {
	m := &Manager{sections: make(map[Name]*Section, 3)}
	for _, name := range Names() {
		ci := NewControlItem(name, hosts(name), positions)
		m.sections[name] = New(name, ci)
	}
	return m
}

// Start attaches the markers for every enabled section.
func (m *Manager) Start() error {
	for _, name := range Names() {
		s := m.sections[name]
		if !s.IsEnabled() {
			continue
		}
		if err := s.ControlItem().Attach(); err != nil {
			return fmt.Errorf("start section %s: %w", name, err)
		}
	}
	return nil
}

// Stop detaches every marker. Positions persist through the control items'
// detach caching.
func (m *Manager) Stop() {
	for _, name := range Names() {
		if err := m.sections[name].ControlItem().Detach(); err != nil {
			// Shutdown continues; a stuck marker disappears with the process.
			continue
		}
	}
}

// Section looks up a section by name.
func (m *Manager) Section(name Name) (*Section, bool) {
	s, ok := m.sections[name]
	return s, ok
}

// ControlItem looks up a section's control item by name.
func (m *Manager) ControlItem(name Name) (*ControlItem, bool) {
	s, ok := m.sections[name]
	if !ok {
		return nil, false
	}
	return s.ControlItem(), true
}

// DividerFrames returns the classifier's cut points: the hidden marker frame
// and, when that section is enabled and attached, the alwaysHidden marker
// frame. ok is false until the hidden marker has a placed window.
func (m *Manager) DividerFrames() (hidden geometry.Rect, alwaysHidden *geometry.Rect, ok bool) {
	hiddenSection := m.sections[Hidden]
	frame, placed := hiddenSection.ControlItem().Frame()
	if !placed {
		return geometry.Rect{}, nil, false
	}
	hidden = frame

	ah := m.sections[AlwaysHidden]
	if ah.IsEnabled() {
		if f, placed := ah.ControlItem().Frame(); placed {
			alwaysHidden = &f
		}
	}
	return hidden, alwaysHidden, true
}

// MarkerWindowIDs lists the backing window ids of attached markers, used by
// the mover's boundary-anchor fallback and by snapshot filtering.
func (m *Manager) MarkerWindowIDs() []uint32 {
	ids := make([]uint32, 0, 3)
	for _, name := range Names() {
		if id, ok := m.sections[name].ControlItem().WindowID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
