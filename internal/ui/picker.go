package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run opens the picker in the controlling terminal and blocks until the
// user chooses an entry or dismisses it. ok is false on dismissal.
func Run(entries []Entry) (Entry, bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return Entry{}, false, fmt.Errorf("search requires an interactive terminal")
	}

	model := NewModel(entries)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return Entry{}, false, err
	}
	m, ok := final.(*Model)
	if !ok {
		return Entry{}, false, fmt.Errorf("unexpected final model %T", final)
	}
	entry, chosen := m.Chosen()
	return entry, chosen, nil
}
