// Package mover relocates third-party menu-bar items. There is no API for
// this, so a move is a request to the window server followed by verification
// against fresh snapshots, repeated within a bounded budget.
package mover

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barkeepapp/barkeep/internal/geometry"
	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/windows"
)

// WindowServer is the slice of the bridge the mover needs.
type WindowServer interface {
	MoveMenuBarItem(id uint32, originX float64) error
	IsProcessResponsive(pid int32) bool
}

// Side selects which side of the anchor the item lands on.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Destination names a position relative to an anchor item.
type Destination struct {
	side   Side
	target item.Item
}

// LeftOf places the moved item immediately left of target.
func LeftOf(target item.Item) Destination {
	return Destination{side: SideLeft, target: target}
}

// RightOf places the moved item immediately right of target.
func RightOf(target item.Item) Destination {
	return Destination{side: SideRight, target: target}
}

// Anchor picks the move target for placing an item into a section: the
// outermost existing item, or the section-boundary marker when the section
// is empty and offers nothing to pin against.
func Anchor(sectionItems []item.Item, marker item.Item) (anchor item.Item, usedMarker bool) {
	if len(sectionItems) == 0 {
		return marker, true
	}
	return sectionItems[len(sectionItems)-1], false
}

const (
	// DefaultTolerance is the pixel slack allowed when verifying a settled
	// move. Environment-tuned; override per Mover if the window server on a
	// given setup reports coarser positions.
	DefaultTolerance = 5.0
	// DefaultMaxAttempts bounds reposition attempts per move.
	DefaultMaxAttempts = 20
	// DefaultSettleDelay is the pause between a reposition request and its
	// verification snapshot.
	DefaultSettleDelay = 25 * time.Millisecond
)

// Mover relocates items one at a time. Exactly one move is in flight
// system-wide; concurrent calls wait their turn or give up with their
// context.
type Mover struct {
	server   WindowServer
	provider windows.Provider

	Tolerance   float64
	MaxAttempts int
	SettleDelay time.Duration

	sem chan struct{}
}

func New(server WindowServer, provider windows.Provider) *Mover {
	return &Mover{
		server:      server,
		provider:    provider,
		Tolerance:   DefaultTolerance,
		MaxAttempts: DefaultMaxAttempts,
		SettleDelay: DefaultSettleDelay,
		sem:         make(chan struct{}, 1),
	}
}

// Move relocates it adjacent to the destination's anchor. Cancellation stops
// retrying without rollback; the item stays wherever it last verifiably
// settled.
func (m *Mover) Move(ctx context.Context, it item.Item, dest Destination) error {
	if !it.Movable {
		return &NotMovableError{Item: it}
	}

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.sem }()

	if !m.server.IsProcessResponsive(it.OwnerPID) {
		return &UnresponsiveError{Item: it}
	}

	destX := destinationX(it, dest)
	op := uuid.NewString()
	events.Move.Begin(op, it.WindowID, destX)

	err := m.converge(ctx, op, it, destX)
	events.Move.End(op, err)
	return err
}

func destinationX(it item.Item, dest Destination) float64 {
	if dest.side == SideLeft {
		return dest.target.Frame.X - it.Frame.Width
	}
	return dest.target.Frame.MaxX()
}

func (m *Mover) converge(ctx context.Context, op string, it item.Item, destX float64) error {
	want := geometry.Rect{X: destX}
	for attempt := 1; attempt <= m.MaxAttempts; attempt++ {
		if err := m.server.MoveMenuBarItem(it.WindowID, destX); err != nil {
			return fmt.Errorf("reposition %s: %w", it.DisplayName(), err)
		}
		if err := sleep(ctx, m.SettleDelay); err != nil {
			return err
		}
		frame, ok, err := m.currentFrame(it.WindowID)
		if err != nil {
			return fmt.Errorf("verify %s: %w", it.DisplayName(), err)
		}
		if ok {
			events.Move.Attempt(op, attempt, frame.X)
			if frame.ApproxEqualX(want, m.Tolerance) {
				return nil
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return &TimeoutError{Item: it, Attempts: m.MaxAttempts}
}

func (m *Mover) currentFrame(windowID uint32) (geometry.Rect, bool, error) {
	snapshot, err := m.provider.List()
	if err != nil {
		return geometry.Rect{}, false, err
	}
	for _, w := range snapshot {
		if w.ID == windowID {
			return w.Frame, true, nil
		}
	}
	return geometry.Rect{}, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
