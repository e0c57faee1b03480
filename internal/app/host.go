package app

import (
	"strings"

	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/windows"
)

// markerTitlePrefix names the daemon's own marker windows in the window
// list. The embedding application titles each status item it renders
// "barkeep.<section>".
const markerTitlePrefix = "barkeep."

// MarkerSurface renders marker windows. The daemon owns marker logic and
// geometry; drawing is the embedder's job. The default surface only records
// commands, which is all a headless run needs.
type MarkerSurface interface {
	Place(name string) error
	Remove(name string) error
	SetLength(name string, points float64) error
	SetImage(name, image string) error
	SetInteractionEnabled(name string, enabled bool) error
}

// traceSurface records marker commands in the trace stream.
type traceSurface struct{}

func (traceSurface) Place(name string) error {
	events.Section.MarkerCommand(name, "place", nil)
	return nil
}

func (traceSurface) Remove(name string) error {
	events.Section.MarkerCommand(name, "remove", nil)
	return nil
}

func (traceSurface) SetLength(name string, points float64) error {
	events.Section.MarkerCommand(name, "length", points)
	return nil
}

func (traceSurface) SetImage(name, image string) error {
	events.Section.MarkerCommand(name, "image", image)
	return nil
}

func (traceSurface) SetInteractionEnabled(name string, enabled bool) error {
	events.Section.MarkerCommand(name, "interaction", enabled)
	return nil
}

// markerHost implements section.Host. Appearance commands go to the
// surface; geometry is read back from live window snapshots, matching the
// marker by owner pid and title.
type markerHost struct {
	surface  MarkerSurface
	server   bridge.WindowServer
	ownPID   int32
	name     string
	attached bool
}

func newMarkerHost(surface MarkerSurface, server bridge.WindowServer, ownPID int32, name section.Name) *markerHost {
	return &markerHost{
		surface: surface,
		server:  server,
		ownPID:  ownPID,
		name:    string(name),
	}
}

func (h *markerHost) title() string { return markerTitlePrefix + h.name }

func (h *markerHost) Attach() error {
	if h.attached {
		return nil
	}
	if err := h.surface.Place(h.name); err != nil {
		return err
	}
	h.attached = true
	return nil
}

func (h *markerHost) Detach() error {
	if !h.attached {
		return nil
	}
	if err := h.surface.Remove(h.name); err != nil {
		return err
	}
	h.attached = false
	return nil
}

func (h *markerHost) IsAttached() bool { return h.attached }

// Frame scans the live window list for the marker's backing window. ok is
// false until the window server has placed it.
func (h *markerHost) Frame() (geometry.Rect, bool) {
	w, ok := h.find()
	if !ok {
		return geometry.Rect{}, false
	}
	return w.Frame, true
}

func (h *markerHost) WindowID() (uint32, bool) {
	w, ok := h.find()
	if !ok {
		return 0, false
	}
	return w.ID, true
}

func (h *markerHost) find() (bridge.WindowInfo, bool) {
	if !h.attached {
		return bridge.WindowInfo{}, false
	}
	list, err := h.server.MenuBarWindows()
	if err != nil {
		return bridge.WindowInfo{}, false
	}
	title := h.title()
	for _, w := range list {
		if w.Layer != windows.StatusBarLayer {
			continue
		}
		if w.OwnerPID == h.ownPID && strings.EqualFold(w.Title, title) {
			return w, true
		}
	}
	return bridge.WindowInfo{}, false
}

func (h *markerHost) SetLength(points float64) error {
	return h.surface.SetLength(h.name, points)
}

func (h *markerHost) SetImage(name string) error {
	return h.surface.SetImage(h.name, name)
}

func (h *markerHost) SetInteractionEnabled(enabled bool) error {
	return h.surface.SetInteractionEnabled(h.name, enabled)
}

// RestorePosition reasserts a cached ordinal by repositioning the backing
// window. A marker the server has not placed yet keeps its appended spot.
func (h *markerHost) RestorePosition(x float64) error {
	id, ok := h.WindowID()
	if !ok {
		return nil
	}
	return h.server.MoveMenuBarItem(id, x)
}

var _ section.Host = (*markerHost)(nil)
