package mover

import (
	"fmt"

	"github.com/barkeepapp/barkeep/internal/item"
)

// NotMovableError reports an item the window server refuses to relocate.
// Permanent; callers must not retry.
type NotMovableError struct {
	Item item.Item
}

func (e *NotMovableError) Error() string {
	return fmt.Sprintf("%s cannot be moved", e.Item.DisplayName())
}

// UnresponsiveError reports an item whose owning process is not servicing
// events. Permanent for this interaction; retrying would only hang.
type UnresponsiveError struct {
	Item item.Item
}

func (e *UnresponsiveError) Error() string {
	return fmt.Sprintf("%s belongs to an unresponsive application", e.Item.DisplayName())
}

// TimeoutError reports that the window server never confirmed the requested
// position within the attempt budget.
type TimeoutError struct {
	Item     item.Item
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not settle after %d attempts", e.Item.DisplayName(), e.Attempts)
}
