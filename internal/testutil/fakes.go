// Package testutil provides fakes for the OS-facing seams so every component
// is testable off-platform.
package testutil

import (
	"sync"

	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/windows"
)

// FakeProvider serves a mutable window list as snapshots.
type FakeProvider struct {
	mu   sync.Mutex
	list []windows.Window
	err  error
}

func NewFakeProvider(list ...windows.Window) *FakeProvider {
	return &FakeProvider{list: list}
}

func (p *FakeProvider) SetList(list []windows.Window) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.list = list
}

func (p *FakeProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *FakeProvider) List() ([]windows.Window, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	out := make([]windows.Window, len(p.list))
	copy(out, p.list)
	return out, nil
}

// FakeHotkeyFacility records registrations and lets tests fire events
// through the installed callback.
type FakeHotkeyFacility struct {
	mu       sync.Mutex
	callback func(bridge.HotkeyEvent) bool
	nextRef  uintptr
	Live     map[uintptr][3]uint32 // ref -> key, modifiers, id
	Reserved [][2]uint32
}

func NewFakeHotkeyFacility() *FakeHotkeyFacility {
	return &FakeHotkeyFacility{Live: make(map[uintptr][3]uint32)}
}

func (f *FakeHotkeyFacility) InstallHandler(callback func(bridge.HotkeyEvent) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = callback
	return nil
}

func (f *FakeHotkeyFacility) Register(keyCode, modifiers, id uint32) (uintptr, int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRef++
	f.Live[f.nextRef] = [3]uint32{keyCode, modifiers, id}
	return f.nextRef, 0, nil
}

func (f *FakeHotkeyFacility) Unregister(ref uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Live, ref)
	return nil
}

func (f *FakeHotkeyFacility) ReservedCombinations() ([][2]uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Reserved, nil
}

// Fire delivers an event as the OS would.
func (f *FakeHotkeyFacility) Fire(id uint32, kind bridge.EventKind) bool {
	f.mu.Lock()
	callback := f.callback
	f.mu.Unlock()
	if callback == nil {
		return false
	}
	return callback(bridge.HotkeyEvent{ID: id, Kind: kind})
}

// FakeMarkerHost is an in-memory section.Host.
type FakeMarkerHost struct {
	Attached    bool
	FrameValue  geometry.Rect
	ID          uint32
	Length      float64
	Image       string
	Interactive bool
	RestoredTo  []float64
}

func NewFakeMarkerHost(id uint32, frame geometry.Rect) *FakeMarkerHost {
	return &FakeMarkerHost{ID: id, FrameValue: frame}
}

func (h *FakeMarkerHost) Attach() error {
	h.Attached = true
	return nil
}

func (h *FakeMarkerHost) Detach() error {
	h.Attached = false
	return nil
}

func (h *FakeMarkerHost) IsAttached() bool { return h.Attached }

func (h *FakeMarkerHost) Frame() (geometry.Rect, bool) {
	if !h.Attached {
		return geometry.Rect{}, false
	}
	return h.FrameValue, true
}

func (h *FakeMarkerHost) WindowID() (uint32, bool) {
	if !h.Attached {
		return 0, false
	}
	return h.ID, true
}

func (h *FakeMarkerHost) SetLength(points float64) error {
	h.Length = points
	return nil
}

func (h *FakeMarkerHost) SetImage(name string) error {
	h.Image = name
	return nil
}

func (h *FakeMarkerHost) SetInteractionEnabled(enabled bool) error {
	h.Interactive = enabled
	return nil
}

func (h *FakeMarkerHost) RestorePosition(x float64) error {
	h.RestoredTo = append(h.RestoredTo, x)
	return nil
}

var _ section.Host = (*FakeMarkerHost)(nil)

// MemoryPositions is an in-memory section.PositionStore.
type MemoryPositions struct {
	Values map[string]float64
}

func NewMemoryPositions() *MemoryPositions {
	return &MemoryPositions{Values: make(map[string]float64)}
}

func (p *MemoryPositions) Float(key string) (float64, bool, error) {
	v, ok := p.Values[key]
	return v, ok, nil
}

func (p *MemoryPositions) SetFloat(key string, value float64) error {
	p.Values[key] = value
	return nil
}

// NewSectionManager builds a manager over fake hosts at the given divider
// positions.
func NewSectionManager() (*section.Manager, map[section.Name]*FakeMarkerHost) {
	hosts := map[section.Name]*FakeMarkerHost{
		section.Visible:      NewFakeMarkerHost(901, geometry.Rect{X: 900, Width: 25, Height: 24}),
		section.Hidden:       NewFakeMarkerHost(301, geometry.Rect{X: 300, Width: 25, Height: 24}),
		section.AlwaysHidden: NewFakeMarkerHost(101, geometry.Rect{X: 100, Width: 25, Height: 24}),
	}
	m := section.NewManager(func(name section.Name) section.Host { return hosts[name] }, NewMemoryPositions())
	return m, hosts
}
