// Package action maps hotkeys onto the daemon's named commands.
package action

import "fmt"

// Name identifies one bindable command. The set is fixed; each action binds
// to at most one hotkey.
type Name string

const (
	ToggleHiddenSection       Name = "toggle-hidden-section"
	ToggleAlwaysHiddenSection Name = "toggle-always-hidden-section"
	ToggleApplicationMenus    Name = "toggle-application-menus"
	ShowSectionDividers       Name = "show-section-dividers"
	SearchMenuBarItems        Name = "search-menu-bar-items"
)

// Names lists every bindable action.
func Names() []Name {
	return []Name{
		ToggleHiddenSection,
		ToggleAlwaysHiddenSection,
		ToggleApplicationMenus,
		ShowSectionDividers,
		SearchMenuBarItems,
	}
}

// Valid reports whether name is one of the fixed actions.
func Valid(name Name) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// ParseName validates a config string as an action name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !Valid(n) {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return n, nil
}
