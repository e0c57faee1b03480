package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the picker.
type Styles struct {
	Header                *lipgloss.Style
	Item                  *lipgloss.Style
	SelectedItem          *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SectionTag            *lipgloss.Style
	Info                  *lipgloss.Style
	Error                 *lipgloss.Style
	Footer                *lipgloss.Style
}

func defaultStyles() Styles {
	header := lipgloss.NewStyle().Bold(true)
	item := lipgloss.NewStyle()
	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedIndicator := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	tag := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	info := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Styles{
		Header:                &header,
		Item:                  &item,
		SelectedItem:          &selected,
		ItemIndicator:         &indicator,
		SelectedItemIndicator: &selectedIndicator,
		SectionTag:            &tag,
		Info:                  &info,
		Error:                 &errStyle,
		Footer:                &footer,
	}
}
