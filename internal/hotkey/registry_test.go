package hotkey

import (
	"errors"
	"testing"

	"github.com/barkeepapp/barkeep/internal/bridge"
)

type registeredKey struct {
	key       uint32
	modifiers uint32
	id        uint32
}

type fakeFacility struct {
	callback   func(bridge.HotkeyEvent) bool
	installErr error
	status     int32
	reserved   [][2]uint32

	nextRef         uintptr
	live            map[uintptr]registeredKey
	registerCalls   int
	unregisterCalls int
	installed       bool
}

func newFakeFacility() *fakeFacility {
	return &fakeFacility{live: make(map[uintptr]registeredKey)}
}

func (f *fakeFacility) InstallHandler(callback func(bridge.HotkeyEvent) bool) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.installed = true
	f.callback = callback
	return nil
}

func (f *fakeFacility) Register(keyCode, modifiers, id uint32) (uintptr, int32, error) {
	f.registerCalls++
	if f.status != 0 {
		return 0, f.status, nil
	}
	f.nextRef++
	f.live[f.nextRef] = registeredKey{key: keyCode, modifiers: modifiers, id: id}
	return f.nextRef, 0, nil
}

func (f *fakeFacility) Unregister(ref uintptr) error {
	f.unregisterCalls++
	delete(f.live, ref)
	return nil
}

func (f *fakeFacility) ReservedCombinations() ([][2]uint32, error) {
	return f.reserved, nil
}

func (f *fakeFacility) fire(id uint32, kind bridge.EventKind) bool {
	if f.callback == nil {
		return false
	}
	return f.callback(bridge.HotkeyEvent{ID: id, Kind: kind})
}

func (f *fakeFacility) liveKeys() []registeredKey {
	out := make([]registeredKey, 0, len(f.live))
	for _, k := range f.live {
		out = append(out, k)
	}
	return out
}

func TestRegisterThenFire(t *testing.T) {
	facility := newFakeFacility()
	registry := NewRegistry(facility)

	fired := 0
	id, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyDown, func() { fired++ })
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !facility.fire(id, bridge.KeyDown) {
		t.Fatalf("expected event handled")
	}
	if fired != 1 {
		t.Fatalf("handler fired %d times, want 1", fired)
	}
}

func TestUnregisterSilencesID(t *testing.T) {
	facility := newFakeFacility()
	registry := NewRegistry(facility)

	fired := 0
	id, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyDown, func() { fired++ })
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Unregister(id); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	if facility.fire(id, bridge.KeyDown) {
		t.Fatalf("expected event unhandled after unregister")
	}
	if fired != 0 {
		t.Fatalf("handler fired after unregister")
	}
	if facility.unregisterCalls != 1 {
		t.Fatalf("OS unregister called %d times, want 1", facility.unregisterCalls)
	}
}

func TestReservedCombinationRejected(t *testing.T) {
	facility := newFakeFacility()
	combo := KeyCombination{Key: 49, Modifiers: ModCommand}
	facility.reserved = [][2]uint32{{uint32(combo.Key), uint32(combo.Modifiers)}}
	registry := NewRegistry(facility)

	_, err := registry.Register(combo, bridge.KeyDown, func() {})

	var reserved *ReservedError
	if !errors.As(err, &reserved) {
		t.Fatalf("expected ReservedError, got %v", err)
	}
	if facility.registerCalls != 0 {
		t.Fatalf("OS registration attempted for a reserved combination")
	}
	if facility.installed {
		t.Fatalf("handler installed before a successful registration")
	}
}

func TestEventKindMustMatch(t *testing.T) {
	facility := newFakeFacility()
	registry := NewRegistry(facility)

	id, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyUp, func() {})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if facility.fire(id, bridge.KeyDown) {
		t.Fatalf("keyDown must not match a keyUp registration")
	}
	if !facility.fire(id, bridge.KeyUp) {
		t.Fatalf("keyUp delivery should be handled")
	}
}

func TestSuspendResumeRestoresIdenticalRegistrations(t *testing.T) {
	facility := newFakeFacility()
	registry := NewRegistry(facility)

	first := KeyCombination{Key: 4, Modifiers: ModCommand | ModShift}
	second := KeyCombination{Key: 11, Modifiers: ModOption}
	id1, err := registry.Register(first, bridge.KeyDown, func() {})
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	id2, err := registry.Register(second, bridge.KeyUp, func() {})
	if err != nil {
		t.Fatalf("register second: %v", err)
	}

	registry.Suspend()

	if len(facility.live) != 0 {
		t.Fatalf("expected all OS registrations torn down, %d left", len(facility.live))
	}
	for _, id := range []uint32{id1, id2} {
		status, ok := registry.StatusOf(id)
		if !ok || status != StatusSuspended {
			t.Fatalf("registration %d: status %v ok=%v, want suspended", id, status, ok)
		}
	}
	if facility.fire(id1, bridge.KeyDown) {
		t.Fatalf("suspended registration must not handle events")
	}

	registry.Resume()

	keys := facility.liveKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 OS registrations after resume, got %d", len(keys))
	}
	want := map[uint32]registeredKey{
		id1: {key: uint32(first.Key), modifiers: uint32(first.Modifiers), id: id1},
		id2: {key: uint32(second.Key), modifiers: uint32(second.Modifiers), id: id2},
	}
	for _, k := range keys {
		if want[k.id] != k {
			t.Fatalf("resumed registration %v does not match original %v", k, want[k.id])
		}
	}
	if !facility.fire(id1, bridge.KeyDown) {
		t.Fatalf("resumed registration should handle events again")
	}
}

func TestInstallFailureSurfaces(t *testing.T) {
	facility := newFakeFacility()
	facility.installErr = errors.New("mach failure")
	registry := NewRegistry(facility)

	_, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyDown, func() {})
	if err == nil {
		t.Fatalf("expected install failure to surface")
	}
	if facility.registerCalls != 0 {
		t.Fatalf("OS registration attempted without a handler")
	}
}

func TestOSRefusalReturnsStatus(t *testing.T) {
	facility := newFakeFacility()
	facility.status = -9878
	registry := NewRegistry(facility)

	_, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyDown, func() {})

	var osErr *OSStatusError
	if !errors.As(err, &osErr) {
		t.Fatalf("expected OSStatusError, got %v", err)
	}
	if osErr.Status != -9878 {
		t.Fatalf("status = %d, want -9878", osErr.Status)
	}
}

func TestHandleGatesSingleRegistration(t *testing.T) {
	facility := newFakeFacility()
	registry := NewRegistry(facility)

	fired := 0
	id, err := registry.Register(KeyCombination{Key: 4, Modifiers: ModCommand}, bridge.KeyDown, func() { fired++ })
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	handle := registry.NewHandle(id)

	if err := handle.Disable(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if facility.fire(id, bridge.KeyDown) {
		t.Fatalf("disabled handle must not fire")
	}

	if err := handle.Enable(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !facility.fire(id, bridge.KeyDown) {
		t.Fatalf("enabled handle should fire")
	}
	if fired != 1 {
		t.Fatalf("handler fired %d times, want 1", fired)
	}

	if err := handle.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if facility.fire(id, bridge.KeyDown) {
		t.Fatalf("released handle must not fire")
	}
}
