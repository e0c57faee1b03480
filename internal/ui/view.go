package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/barkeepapp/barkeep/internal/section"
)

const pickerHeader = "menu bar items"

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]string, 0, len(m.matches)+6)
	lines = append(lines, m.styles.Header.Render(pickerHeader))
	lines = append(lines, m.input.View())

	if len(m.matches) == 0 {
		msg := "(no items)"
		if m.input.Value() != "" {
			msg = fmt.Sprintf("No matches for %q", m.input.Value())
		}
		lines = append(lines, m.styles.Info.Render(msg))
	}

	display := m.matches
	if max := m.maxVisibleRows(); max > 0 && len(display) > max {
		start := m.cursor - max/2
		if start < 0 {
			start = 0
		}
		if start+max > len(display) {
			start = len(display) - max
		}
		display = display[start : start+max]
	}
	for _, idx := range display {
		lines = append(lines, m.renderRow(idx))
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.Footer.Render("↑/↓ move  enter reveal  esc cancel"))

	if m.width > 0 {
		for i, line := range lines {
			if ansi.StringWidth(line) > m.width {
				lines[i] = ansi.Truncate(line, m.width-1, "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(idx int) string {
	entry := m.entries[idx]
	indicator := "▌"
	indicatorStyle := m.styles.ItemIndicator
	lineStyle := m.styles.Item
	if m.cursor < len(m.matches) && m.matches[m.cursor] == idx {
		indicatorStyle = m.styles.SelectedItemIndicator
		lineStyle = m.styles.SelectedItem
	}
	tag := m.styles.SectionTag.Render("[" + sectionTag(entry.Section) + "]")
	label := lineStyle.Render(" " + entry.Item.DisplayName() + " ")
	return indicatorStyle.Render(indicator) + label + tag
}

func sectionTag(name section.Name) string {
	switch name {
	case section.AlwaysHidden:
		return "always hidden"
	case section.Hidden:
		return "hidden"
	default:
		return "visible"
	}
}

func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return -1
	}
	// header + input + blank + footer
	remain := m.height - 4
	if remain < 1 {
		return 1
	}
	return remain
}
