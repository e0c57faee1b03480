// Package bridge is the only part of the codebase that talks to the window
// server and the Carbon event system. Everything above it consumes the
// narrow interfaces defined here, so the rest of the daemon is testable with
// fakes on any platform.
package bridge

import (
	"errors"

	"github.com/barkeepapp/barkeep/internal/geometry"
)

// WindowInfo is one entry from a window-server enumeration pass.
type WindowInfo struct {
	ID        uint32
	OwnerPID  int32
	OwnerName string
	Title     string
	Frame     geometry.Rect
	OnScreen  bool
	Layer     int32
	Alpha     float64
}

// EventKind distinguishes hotkey press and release deliveries.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
)

func (k EventKind) String() string {
	if k == KeyUp {
		return "keyUp"
	}
	return "keyDown"
}

// HotkeyEvent is delivered on the shared Carbon handler callback.
type HotkeyEvent struct {
	ID   uint32
	Kind EventKind
}

// WindowServer is the window-server surface the daemon depends on.
type WindowServer interface {
	// MenuBarWindows enumerates windows on the status-item layer, including
	// ones currently off screen.
	MenuBarWindows() ([]WindowInfo, error)
	// WindowFrame re-fetches the current frame of a single window.
	WindowFrame(id uint32) (geometry.Rect, error)
	// MoveMenuBarItem asks the window server to relocate a status item so its
	// left edge lands at originX. The call is a request, not a guarantee;
	// callers must verify with a fresh snapshot.
	MoveMenuBarItem(id uint32, originX float64) error
	// IsProcessResponsive reports whether the owning process is servicing its
	// event queue.
	IsProcessResponsive(pid int32) bool
	// CaptureWindow renders a window to an encoded bitmap. A nil slice with a
	// nil error means the window produced no image.
	CaptureWindow(id uint32) ([]byte, error)
}

// MenuTracker surfaces native menu-tracking sessions. Carbon hotkeys steal
// key events from an open menu, so registrations must be torn down when
// tracking begins and rebuilt when it ends.
type MenuTracker interface {
	// ObserveMenuTracking installs an observer called with true when the OS
	// begins tracking a menu and false when tracking ends. Install once; the
	// observer runs on the OS callback path.
	ObserveMenuTracking(callback func(active bool)) error
}

// HotkeyFacility is the Carbon hotkey surface.
type HotkeyFacility interface {
	// InstallHandler installs the shared event handler. Idempotent; the
	// callback reports whether the event was handled so unmatched events
	// propagate normally.
	InstallHandler(callback func(HotkeyEvent) bool) error
	// Register requests a system hotkey registration. The returned ref is
	// opaque and only meaningful to Unregister. A non-zero status means the
	// OS refused the registration.
	Register(keyCode, modifiers, id uint32) (ref uintptr, status int32, err error)
	// Unregister tears down a previous registration.
	Unregister(ref uintptr) error
	// ReservedCombinations lists the key/modifier pairs currently claimed by
	// enabled system shortcuts.
	ReservedCombinations() ([][2]uint32, error)
}

// ErrUnsupported is returned by New on platforms without a window server
// bridge.
var ErrUnsupported = errors.New("bridge: unsupported platform")
