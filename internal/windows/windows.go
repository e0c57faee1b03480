// Package windows provides on-demand snapshots of menu-bar layer windows.
package windows

import (
	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/geometry"
)

// StatusBarLayer is the window-server level that status items live on.
const StatusBarLayer = 25

// Window is one menu-bar window as reported by the window server. Values are
// snapshots; a stale frame is corrected by re-fetching, never by mutation.
type Window struct {
	ID        uint32
	OwnerPID  int32
	OwnerName string
	Title     string
	Frame     geometry.Rect
	OnScreen  bool
	Alpha     float64
}

// Provider enumerates menu-bar windows. Each call returns a fresh snapshot.
type Provider interface {
	List() ([]Window, error)
}

// ServerProvider adapts the window-server bridge into a Provider, keeping
// only windows on the status-item layer.
type ServerProvider struct {
	server bridge.WindowServer
}

func NewServerProvider(server bridge.WindowServer) *ServerProvider {
	return &ServerProvider{server: server}
}

func (p *ServerProvider) List() ([]Window, error) {
	infos, err := p.server.MenuBarWindows()
	if err != nil {
		return nil, err
	}
	out := make([]Window, 0, len(infos))
	for _, info := range infos {
		if info.Layer != StatusBarLayer {
			continue
		}
		out = append(out, Window{
			ID:        info.ID,
			OwnerPID:  info.OwnerPID,
			OwnerName: info.OwnerName,
			Title:     info.Title,
			Frame:     info.Frame,
			OnScreen:  info.OnScreen,
			Alpha:     info.Alpha,
		})
	}
	return out, nil
}
