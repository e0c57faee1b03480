package section

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/logging"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/prefs"
)

// HidingState is the two-state machine every control item runs.
type HidingState int

const (
	// HideItems pushes the items left of the marker off the strip.
	HideItems HidingState = iota
	// ShowItems restores them.
	ShowItems
)

func (s HidingState) String() string {
	if s == HideItems {
		return "hideItems"
	}
	return "showItems"
}

// Length is the marker window's horizontal size class.
type Length int

const (
	Standard Length = iota
	Expanded
)

// Points returns the length in screen points. An expanded marker is wider
// than any screen, which is the only mechanism available to push items it
// does not own off the strip.
func (l Length) Points() float64 {
	if l == Expanded {
		return 10000
	}
	return 25
}

// appearance is everything a hiding state implies for one marker.
type appearance struct {
	length      Length
	image       string
	interactive bool
}

// appearanceFor is the pure transition function of the state machine. The
// leading marker and the interior markers differ only in these parameters,
// not in structure.
func appearanceFor(name Name, state HidingState) appearance {
	if name == Visible {
		// The leading marker never resizes; its icon just reflects state.
		img := "divider.collapse"
		if state == ShowItems {
			img = "divider.expand"
		}
		return appearance{length: Standard, image: img, interactive: true}
	}
	if state == HideItems {
		return appearance{length: Expanded, image: "", interactive: false}
	}
	return appearance{length: Standard, image: "divider." + string(name), interactive: true}
}

// PositionStore persists marker ordinal positions across detach cycles.
// *prefs.Store satisfies it.
type PositionStore interface {
	Float(key string) (float64, bool, error)
	SetFloat(key string, value float64) error
}

// ControlItem owns the hiding-state machine for one section's marker. One
// long-lived instance per section; destroyed only at shutdown.
type ControlItem struct {
	name      Name
	host      Host
	positions PositionStore
	state     HidingState

	// cachedPosition holds the last known ordinal while the marker is
	// detached, since the OS deletes its stored value on detach.
	cachedPosition    float64
	hasCachedPosition bool

	// onVisibilityChange fires when the marker's window attaches or
	// detaches; the owning section uses it to gate its hotkey.
	onVisibilityChange func(visible bool)
}

// NewControlItem builds the marker state machine for name. The item starts
// in ShowItems; callers attach it separately.
func NewControlItem(name Name, host Host, positions PositionStore) *ControlItem {
	return &ControlItem{
		name:      name,
		host:      host,
		positions: positions,
		state:     ShowItems,
	}
}

func (c *ControlItem) Name() Name         { return c.name }
func (c *ControlItem) State() HidingState { return c.state }

// OnVisibilityChange registers the single visibility observer.
func (c *ControlItem) OnVisibilityChange(fn func(visible bool)) {
	c.onVisibilityChange = fn
}

// IsVisible reports whether the marker window is currently attached.
func (c *ControlItem) IsVisible() bool {
	return c.host.IsAttached()
}

// Frame returns the marker window's current frame when attached.
func (c *ControlItem) Frame() (geometry.Rect, bool) {
	return c.host.Frame()
}

// WindowID returns the marker's backing window id when attached.
func (c *ControlItem) WindowID() (uint32, bool) {
	return c.host.WindowID()
}

// SetState applies the appearance for state. Idempotent. Without a backing
// window the call is a logged no-op; the marker cannot change what it is not
// part of.
func (c *ControlItem) SetState(state HidingState) {
	if !c.host.IsAttached() {
		events.Section.MarkerMissing(string(c.name))
		return
	}
	if state == c.state {
		return
	}
	c.state = state
	c.apply()
	events.Section.Toggle(string(c.name), state == HideItems)
}

// Toggle flips the hiding state.
func (c *ControlItem) Toggle() {
	if c.state == HideItems {
		c.SetState(ShowItems)
	} else {
		c.SetState(HideItems)
	}
}

func (c *ControlItem) apply() {
	a := appearanceFor(c.name, c.state)
	if err := c.host.SetLength(a.length.Points()); err != nil {
		logging.Error(fmt.Errorf("set %s marker length: %w", c.name, err))
	}
	if err := c.host.SetImage(a.image); err != nil {
		logging.Error(fmt.Errorf("set %s marker image: %w", c.name, err))
	}
	if err := c.host.SetInteractionEnabled(a.interactive); err != nil {
		logging.Error(fmt.Errorf("set %s marker interaction: %w", c.name, err))
	}
}

// Attach places the marker in the menu bar, restoring its cached ordinal
// position when one survives from a previous detach or a prior run.
func (c *ControlItem) Attach() error {
	if c.host.IsAttached() {
		return nil
	}
	if !c.hasCachedPosition {
		if v, ok, err := c.positions.Float(prefs.MarkerPositionKey(string(c.name))); err != nil {
			logging.Error(fmt.Errorf("read %s marker position: %w", c.name, err))
		} else if ok {
			c.cachedPosition = v
			c.hasCachedPosition = true
		}
	}
	if err := c.host.Attach(); err != nil {
		return fmt.Errorf("attach %s marker: %w", c.name, err)
	}
	if c.hasCachedPosition {
		if err := c.host.RestorePosition(c.cachedPosition); err != nil {
			logging.Error(fmt.Errorf("restore %s marker position: %w", c.name, err))
		} else {
			events.Section.PositionRestored(string(c.name), c.cachedPosition)
		}
	}
	c.apply()
	if c.onVisibilityChange != nil {
		c.onVisibilityChange(true)
	}
	return nil
}

// Detach removes the marker, caching its ordinal position first because the
// OS deletes the stored value as a side effect of detaching.
func (c *ControlItem) Detach() error {
	if !c.host.IsAttached() {
		return nil
	}
	if frame, ok := c.host.Frame(); ok {
		c.cachedPosition = frame.X
		c.hasCachedPosition = true
		key := prefs.MarkerPositionKey(string(c.name))
		if err := c.positions.SetFloat(key, frame.X); err != nil {
			logging.Error(fmt.Errorf("persist %s marker position: %w", c.name, err))
		}
	}
	if err := c.host.Detach(); err != nil {
		return fmt.Errorf("detach %s marker: %w", c.name, err)
	}
	if c.onVisibilityChange != nil {
		c.onVisibilityChange(false)
	}
	return nil
}
