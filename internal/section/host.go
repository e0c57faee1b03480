package section

import "github.com/barkeepapp/barkeep/internal/geometry"

// Host drives the real marker window backing one control item. Rendering
// (shape, tint, icon artwork) lives outside the daemon; the host only
// receives geometry and named images.
type Host interface {
	// Attach places the marker in the menu bar. The OS assigns it the stored
	// ordinal position, or appends it when none is stored.
	Attach() error
	// Detach removes the marker. As a side effect the OS deletes the
	// marker's stored ordinal; callers must cache it first.
	Detach() error
	IsAttached() bool
	// Frame returns the marker window's current frame. ok is false while the
	// marker is detached or the window server has not yet placed it.
	Frame() (geometry.Rect, bool)
	// WindowID identifies the marker's backing window while attached.
	WindowID() (uint32, bool)
	SetLength(points float64) error
	// SetImage sets the marker icon by name; the empty string clears it.
	SetImage(name string) error
	SetInteractionEnabled(enabled bool) error
	// RestorePosition reasserts a previously cached ordinal position.
	RestorePosition(x float64) error
}
