//go:build !darwin

package bridge

import "github.com/barkeepapp/barkeep/internal/geometry"

// Darwin is only available on macOS. The stub satisfies the bridge
// interfaces so platform-neutral wiring compiles; tests exercise the daemon
// with fakes instead.
type Darwin struct{}

// New reports the platform as unsupported.
func New() (*Darwin, error) {
	return nil, ErrUnsupported
}

func (*Darwin) MenuBarWindows() ([]WindowInfo, error)          { return nil, ErrUnsupported }
func (*Darwin) WindowFrame(uint32) (geometry.Rect, error)      { return geometry.Rect{}, ErrUnsupported }
func (*Darwin) MoveMenuBarItem(uint32, float64) error          { return ErrUnsupported }
func (*Darwin) IsProcessResponsive(int32) bool                 { return false }
func (*Darwin) CaptureWindow(uint32) ([]byte, error)           { return nil, ErrUnsupported }
func (*Darwin) InstallHandler(func(HotkeyEvent) bool) error    { return ErrUnsupported }
func (*Darwin) Register(uint32, uint32, uint32) (uintptr, int32, error) {
	return 0, 0, ErrUnsupported
}
func (*Darwin) Unregister(uintptr) error                { return ErrUnsupported }
func (*Darwin) ReservedCombinations() ([][2]uint32, error) { return nil, ErrUnsupported }
func (*Darwin) ObserveMenuTracking(func(bool)) error    { return ErrUnsupported }
