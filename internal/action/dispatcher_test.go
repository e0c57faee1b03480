package action

import (
	"testing"

	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/hotkey"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/testutil"
)

type fakeRehide struct {
	suspended int
}

func (r *fakeRehide) SuspendOnce() { r.suspended++ }

func newTestDispatcher(t *testing.T) (*Dispatcher, *testutil.FakeHotkeyFacility, *section.Manager, *fakeRehide) {
	t.Helper()
	facility := testutil.NewFakeHotkeyFacility()
	registry := hotkey.NewRegistry(facility)
	sections, _ := testutil.NewSectionManager()
	if err := sections.Start(); err != nil {
		t.Fatalf("start sections: %v", err)
	}
	rehide := &fakeRehide{}
	d := NewDispatcher(registry, sections, rehide, nil)
	return d, facility, sections, rehide
}

func boundID(t *testing.T, d *Dispatcher, name Name) uint32 {
	t.Helper()
	id, ok := d.bindings[name]
	if !ok {
		t.Fatalf("action %s not bound", name)
	}
	return id
}

func TestSectionToggleActionFires(t *testing.T) {
	d, facility, sections, rehide := newTestDispatcher(t)

	combo, err := hotkey.Parse("cmd+shift+h")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Bind(ToggleHiddenSection, combo); err != nil {
		t.Fatalf("bind: %v", err)
	}

	hidden, _ := sections.Section(section.Hidden)
	if hidden.IsHidden() {
		t.Fatalf("section should start shown")
	}

	id := boundID(t, d, ToggleHiddenSection)
	if !facility.Fire(id, bridge.KeyDown) {
		t.Fatalf("expected hotkey handled")
	}
	if !hidden.IsHidden() {
		t.Fatalf("first fire should hide the section")
	}
	if rehide.suspended != 0 {
		t.Fatalf("hiding must not suspend rehide")
	}

	facility.Fire(id, bridge.KeyDown)
	if hidden.IsHidden() {
		t.Fatalf("second fire should reveal the section")
	}
	if rehide.suspended != 1 {
		t.Fatalf("revealing should suspend auto-rehide once, got %d", rehide.suspended)
	}
}

func TestRebindReplacesPreviousHotkey(t *testing.T) {
	d, facility, _, _ := newTestDispatcher(t)

	first, _ := hotkey.Parse("cmd+shift+h")
	second, _ := hotkey.Parse("cmd+shift+b")
	if err := d.Bind(ToggleHiddenSection, first); err != nil {
		t.Fatalf("bind: %v", err)
	}
	oldID := boundID(t, d, ToggleHiddenSection)

	if err := d.Bind(ToggleHiddenSection, second); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if facility.Fire(oldID, bridge.KeyDown) {
		t.Fatalf("old registration still fires after rebind")
	}
	if len(facility.Live) != 1 {
		t.Fatalf("expected exactly one live OS registration, got %d", len(facility.Live))
	}
}

func TestUnbindSilencesAction(t *testing.T) {
	d, facility, sections, _ := newTestDispatcher(t)

	combo, _ := hotkey.Parse("cmd+shift+h")
	if err := d.Bind(ToggleHiddenSection, combo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	id := boundID(t, d, ToggleHiddenSection)

	if err := d.Unbind(ToggleHiddenSection); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if facility.Fire(id, bridge.KeyDown) {
		t.Fatalf("unbound hotkey still fires")
	}
	hidden, _ := sections.Section(section.Hidden)
	if hidden.IsHidden() {
		t.Fatalf("section toggled by an unbound hotkey")
	}
}

func TestDisabledSectionSuspendsItsHotkey(t *testing.T) {
	d, facility, sections, _ := newTestDispatcher(t)

	combo, _ := hotkey.Parse("cmd+opt+a")
	if err := d.Bind(ToggleAlwaysHiddenSection, combo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	id := boundID(t, d, ToggleAlwaysHiddenSection)

	ah, _ := sections.Section(section.AlwaysHidden)
	if err := ah.SetEnabled(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if facility.Fire(id, bridge.KeyDown) {
		t.Fatalf("hotkey fired while its section's marker is detached")
	}

	if err := ah.SetEnabled(true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !facility.Fire(id, bridge.KeyDown) {
		t.Fatalf("hotkey should be live again once the marker reattaches")
	}
}

func TestCustomHandlerActions(t *testing.T) {
	d, facility, _, _ := newTestDispatcher(t)

	searched := 0
	d.SetHandler(SearchMenuBarItems, func() { searched++ })

	combo, _ := hotkey.Parse("cmd+shift+s")
	if err := d.Bind(SearchMenuBarItems, combo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	facility.Fire(boundID(t, d, SearchMenuBarItems), bridge.KeyDown)
	if searched != 1 {
		t.Fatalf("search handler fired %d times, want 1", searched)
	}

	// An action without an injected handler is a logged no-op.
	combo2, _ := hotkey.Parse("cmd+shift+d")
	if err := d.Bind(ShowSectionDividers, combo2); err != nil {
		t.Fatalf("bind: %v", err)
	}
	facility.Fire(boundID(t, d, ShowSectionDividers), bridge.KeyDown)
}

func TestBindRejectsUnknownAction(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	combo, _ := hotkey.Parse("cmd+shift+h")
	if err := d.Bind(Name("reticulate-splines"), combo); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}
