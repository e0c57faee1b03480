package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/section"
)

func testEntries() []Entry {
	return []Entry{
		{Item: item.Item{WindowID: 1, Title: "Dropbox"}, Section: section.Hidden},
		{Item: item.Item{WindowID: 2, Title: "Docker Desktop"}, Section: section.Hidden},
		{Item: item.Item{WindowID: 3, Title: "1Password"}, Section: section.AlwaysHidden},
		{Item: item.Item{WindowID: 4, Title: "Wi-Fi"}, Section: section.Visible},
	}
}

func typeString(m *Model, s string) *Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(*Model)
	}
	return m
}

func press(m *Model, key tea.KeyType) *Model {
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(*Model)
}

func TestEntriesOrdersHiddenFirst(t *testing.T) {
	p := item.Partition{
		Visible:      []item.Item{{WindowID: 4}},
		Hidden:       []item.Item{{WindowID: 1}},
		AlwaysHidden: []item.Item{{WindowID: 3}},
	}
	entries := Entries(p)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Section != section.Hidden || entries[1].Section != section.AlwaysHidden {
		t.Fatalf("hidden sections must lead: %v, %v", entries[0].Section, entries[1].Section)
	}
	if entries[2].Section != section.Visible {
		t.Fatalf("visible must trail: %v", entries[2].Section)
	}
}

func TestEmptyQueryListsEverything(t *testing.T) {
	m := NewModel(testEntries())
	if len(m.matches) != 4 {
		t.Fatalf("matches = %d, want all 4", len(m.matches))
	}
}

func TestFilterNarrowsMatches(t *testing.T) {
	m := NewModel(testEntries())
	m = typeString(m, "dock")
	if len(m.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(m.matches))
	}
	entry, ok := m.current()
	if !ok || entry.Item.WindowID != 2 {
		t.Fatalf("expected Docker Desktop, got %#v", entry)
	}
}

func TestEnterSelectsCurrentEntry(t *testing.T) {
	m := NewModel(testEntries())
	m = typeString(m, "drop")
	m = press(m, tea.KeyEnter)

	entry, ok := m.Chosen()
	if !ok {
		t.Fatalf("expected a chosen entry")
	}
	if entry.Item.WindowID != 1 {
		t.Fatalf("chosen = %#v, want Dropbox", entry)
	}
	if m.Canceled() {
		t.Fatalf("selection must not read as cancellation")
	}
}

func TestEscapeCancels(t *testing.T) {
	m := NewModel(testEntries())
	m = press(m, tea.KeyEsc)
	if !m.Canceled() {
		t.Fatalf("escape must cancel")
	}
	if _, ok := m.Chosen(); ok {
		t.Fatalf("cancellation must not report a choice")
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	m := NewModel(testEntries())
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	entry, _ := m.current()
	if entry.Item.WindowID != 3 {
		t.Fatalf("cursor should sit on the third entry, got %#v", entry)
	}

	// Narrowing the filter must clamp the cursor back into range.
	m = typeString(m, "wi-fi")
	entry, ok := m.current()
	if !ok {
		t.Fatalf("expected a current entry after refilter")
	}
	if entry.Item.WindowID != 4 {
		t.Fatalf("expected Wi-Fi after clamp, got %#v", entry)
	}
}

func TestNoMatchesYieldsNoSelection(t *testing.T) {
	m := NewModel(testEntries())
	m = typeString(m, "zzzz")
	if len(m.matches) != 0 {
		t.Fatalf("matches = %d, want 0", len(m.matches))
	}
	m = press(m, tea.KeyEnter)
	if _, ok := m.Chosen(); ok {
		t.Fatalf("enter with no matches must not choose")
	}
}

func TestViewRendersRowsAndTags(t *testing.T) {
	m := NewModel(testEntries())
	view := m.View()
	for _, want := range []string{"Dropbox", "1Password", "always hidden"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
