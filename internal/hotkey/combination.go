// Package hotkey manages system-wide hotkey registrations through the Carbon
// facility, including the retained-but-disabled suspension dance required
// around native menu tracking.
package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// Key is a Carbon virtual key code.
type Key uint32

// Modifiers is a Carbon modifier bitmask.
type Modifiers uint32

const (
	ModCommand Modifiers = 0x0100
	ModShift   Modifiers = 0x0200
	ModOption  Modifiers = 0x0800
	ModControl Modifiers = 0x1000
)

// KeyCombination is a pure, persistable key+modifier value.
type KeyCombination struct {
	Key       Key
	Modifiers Modifiers
}

var keyNames = map[string]Key{
	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7,
	"c": 8, "v": 9, "b": 11, "q": 12, "w": 13, "e": 14, "r": 15,
	"y": 16, "t": 17, "1": 18, "2": 19, "3": 20, "4": 21, "6": 22,
	"5": 23, "9": 25, "7": 26, "8": 28, "0": 29, "o": 31, "u": 32,
	"i": 34, "p": 35, "l": 37, "j": 38, "k": 40, "n": 45, "m": 46,
	"return": 36, "tab": 48, "space": 49, "delete": 51, "escape": 53,
	"f1": 122, "f2": 120, "f3": 99, "f4": 118, "f5": 96, "f6": 97,
	"f7": 98, "f8": 100, "f9": 101, "f10": 109, "f11": 103, "f12": 111,
	"left": 123, "right": 124, "down": 125, "up": 126,
}

var modifierNames = map[string]Modifiers{
	"cmd":     ModCommand,
	"command": ModCommand,
	"shift":   ModShift,
	"opt":     ModOption,
	"option":  ModOption,
	"alt":     ModOption,
	"ctrl":    ModControl,
	"control": ModControl,
}

// Parse reads a combination like "cmd+shift+h". The final token is the key;
// every preceding token is a modifier.
func Parse(s string) (KeyCombination, error) {
	tokens := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(tokens) == 0 || tokens[0] == "" {
		return KeyCombination{}, fmt.Errorf("empty key combination")
	}
	var c KeyCombination
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if i == len(tokens)-1 {
			key, ok := keyNames[token]
			if !ok {
				return KeyCombination{}, fmt.Errorf("unknown key %q in %q", token, s)
			}
			c.Key = key
			continue
		}
		mod, ok := modifierNames[token]
		if !ok {
			return KeyCombination{}, fmt.Errorf("unknown modifier %q in %q", token, s)
		}
		c.Modifiers |= mod
	}
	return c, nil
}

// String renders the combination in canonical parseable form.
func (c KeyCombination) String() string {
	var parts []string
	for name, mod := range map[string]Modifiers{
		"cmd": ModCommand, "shift": ModShift, "opt": ModOption, "ctrl": ModControl,
	} {
		if c.Modifiers&mod != 0 {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	keyName := fmt.Sprintf("key%d", c.Key)
	for name, key := range keyNames {
		if key == c.Key {
			keyName = name
			break
		}
	}
	parts = append(parts, keyName)
	return strings.Join(parts, "+")
}
