// Package ui implements the one-shot search picker over classified
// menu-bar items.
package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/section"
)

// Entry is one selectable row: a live item plus the section it currently
// occupies.
type Entry struct {
	Item    item.Item
	Section section.Name
}

// Entries flattens a partition into picker rows, hidden sections first
// since those are the ones worth searching for.
func Entries(p item.Partition) []Entry {
	entries := make([]Entry, 0, p.Total())
	for _, it := range p.Hidden {
		entries = append(entries, Entry{Item: it, Section: section.Hidden})
	}
	for _, it := range p.AlwaysHidden {
		entries = append(entries, Entry{Item: it, Section: section.AlwaysHidden})
	}
	for _, it := range p.Visible {
		entries = append(entries, Entry{Item: it, Section: section.Visible})
	}
	return entries
}

// Model implements the Bubble Tea model for the search picker.
type Model struct {
	entries []Entry
	matches []int
	cursor  int
	width   int
	height  int

	input  textinput.Model
	styles Styles

	chosen   *Entry
	canceled bool
}

// NewModel builds the picker over a fixed set of entries.
func NewModel(entries []Entry) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "search menu bar items"
	input.Focus()

	m := &Model{
		entries: entries,
		input:   input,
		styles:  defaultStyles(),
	}
	m.refilter()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if entry, ok := m.current(); ok {
				m.chosen = &entry
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// Chosen returns the selected entry once the program has quit.
func (m *Model) Chosen() (Entry, bool) {
	if m.chosen == nil {
		return Entry{}, false
	}
	return *m.chosen, true
}

// Canceled reports whether the picker was dismissed without a choice.
func (m *Model) Canceled() bool {
	return m.canceled
}

func (m *Model) current() (Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return Entry{}, false
	}
	return m.entries[m.matches[m.cursor]], true
}

// refilter recomputes the visible rows from the current query. An empty
// query lists everything in partition order; otherwise rows are ranked by
// fuzzy match distance.
func (m *Model) refilter() {
	query := m.input.Value()
	if query == "" {
		m.matches = make([]int, len(m.entries))
		for i := range m.entries {
			m.matches[i] = i
		}
		m.clampCursor()
		return
	}

	labels := make([]string, len(m.entries))
	for i, e := range m.entries {
		labels[i] = e.Item.DisplayName()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	sort.Stable(ranks)

	m.matches = m.matches[:0]
	for _, r := range ranks {
		m.matches = append(m.matches, r.OriginalIndex)
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.matches) {
		m.cursor = len(m.matches) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
