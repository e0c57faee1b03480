package hotkey

import (
	"fmt"
	"sync"

	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/logging/events"
)

// Status tracks a registration through the retained-but-disabled lifecycle.
// A suspended registration keeps its record while its OS side is torn down.
type Status int

const (
	StatusActive Status = iota
	StatusSuspended
	StatusReleased
)

// ReservedError reports a combination the OS already claims.
type ReservedError struct {
	Combination KeyCombination
}

func (e *ReservedError) Error() string {
	return fmt.Sprintf("%s is reserved by the system", e.Combination)
}

// OSStatusError reports a refused OS registration.
type OSStatusError struct {
	Combination KeyCombination
	Status      int32
}

func (e *OSStatusError) Error() string {
	return fmt.Sprintf("registering %s failed with status %d", e.Combination, e.Status)
}

type registration struct {
	id          uint32
	combination KeyCombination
	kind        bridge.EventKind
	handler     func()
	status      Status
	ref         uintptr
}

// Registry is the process-wide table of hotkey registrations. All deliveries
// run through one shared OS event handler; handler bodies must marshal onto
// the engine loop themselves before touching shared state.
type Registry struct {
	facility bridge.HotkeyFacility

	mu        sync.Mutex
	installed bool
	nextID    uint32
	regs      map[uint32]*registration
}

func NewRegistry(facility bridge.HotkeyFacility) *Registry {
	return &Registry{
		facility: facility,
		regs:     make(map[uint32]*registration),
	}
}

// Register claims a system-wide hotkey. The reserved check runs before any
// OS registration is attempted. On success the returned id identifies the
// registration; wrap it in a Handle for suspend/release control.
func (r *Registry) Register(c KeyCombination, kind bridge.EventKind, handler func()) (uint32, error) {
	reserved, err := r.facility.ReservedCombinations()
	if err != nil {
		return 0, fmt.Errorf("query reserved combinations: %w", err)
	}
	for _, combo := range reserved {
		if Key(combo[0]) == c.Key && Modifiers(combo[1]) == c.Modifiers {
			return 0, &ReservedError{Combination: c}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.installed {
		if err := r.facility.InstallHandler(r.dispatch); err != nil {
			return 0, fmt.Errorf("install shared hotkey handler: %w", err)
		}
		r.installed = true
	}

	r.nextID++
	id := r.nextID
	ref, status, err := r.facility.Register(uint32(c.Key), uint32(c.Modifiers), id)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", c, err)
	}
	if status != 0 {
		events.Hotkey.RegisterFailed(c.String(), status)
		return 0, &OSStatusError{Combination: c, Status: status}
	}

	r.regs[id] = &registration{
		id:          id,
		combination: c,
		kind:        kind,
		handler:     handler,
		status:      StatusActive,
		ref:         ref,
	}
	events.Hotkey.Registered(id, c.String())
	return id, nil
}

// Unregister tears down the OS registration and forgets the record. No
// further events fire for the id.
func (r *Registry) Unregister(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.regs[id]
	if !ok {
		return nil
	}
	delete(r.regs, id)
	reg.status = StatusReleased
	events.Hotkey.Unregistered(id)
	if reg.ref != 0 {
		return r.facility.Unregister(reg.ref)
	}
	return nil
}

// Suspend tears down the OS side of every active registration while keeping
// the records, so native menu tracking never fights the daemon for key
// events.
func (r *Registry) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, reg := range r.regs {
		if reg.status != StatusActive {
			continue
		}
		if err := r.suspendLocked(reg); err == nil {
			count++
		}
	}
	events.Hotkey.Suspended(count)
}

// Resume re-registers every suspended record with its original key,
// modifiers, and event kind.
func (r *Registry) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, reg := range r.regs {
		if reg.status != StatusSuspended {
			continue
		}
		if err := r.resumeLocked(reg); err == nil {
			count++
		}
	}
	events.Hotkey.Resumed(count)
}

func (r *Registry) suspendLocked(reg *registration) error {
	if reg.ref != 0 {
		if err := r.facility.Unregister(reg.ref); err != nil {
			return err
		}
		reg.ref = 0
	}
	reg.status = StatusSuspended
	return nil
}

func (r *Registry) resumeLocked(reg *registration) error {
	ref, status, err := r.facility.Register(uint32(reg.combination.Key), uint32(reg.combination.Modifiers), reg.id)
	if err != nil {
		return err
	}
	if status != 0 {
		events.Hotkey.RegisterFailed(reg.combination.String(), status)
		return &OSStatusError{Combination: reg.combination, Status: status}
	}
	reg.ref = ref
	reg.status = StatusActive
	return nil
}

// SuspendOne and ResumeOne gate a single registration; sections use them to
// keep a hotkey live only while their marker is attached.
func (r *Registry) SuspendOne(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.status != StatusActive {
		return nil
	}
	return r.suspendLocked(reg)
}

func (r *Registry) ResumeOne(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.status != StatusSuspended {
		return nil
	}
	return r.resumeLocked(reg)
}

// StatusOf reports a registration's lifecycle state.
func (r *Registry) StatusOf(id uint32) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return StatusReleased, false
	}
	return reg.status, true
}

// dispatch runs on the OS callback path. It returns false for events the
// registry does not own so the OS continues normal propagation.
func (r *Registry) dispatch(ev bridge.HotkeyEvent) bool {
	r.mu.Lock()
	reg, ok := r.regs[ev.ID]
	var handler func()
	if ok && reg.status == StatusActive && reg.kind == ev.Kind {
		handler = reg.handler
	}
	r.mu.Unlock()

	if handler == nil {
		events.Hotkey.Unhandled(ev.ID)
		return false
	}
	events.Hotkey.Fired(ev.ID, ev.Kind.String())
	handler()
	return true
}

// Handle is the caller's lightweight grip on one registration.
type Handle struct {
	registry *Registry
	id       uint32
}

// NewHandle wraps a registration id.
func (r *Registry) NewHandle(id uint32) *Handle {
	return &Handle{registry: r, id: id}
}

// Enable resumes the registration's OS side.
func (h *Handle) Enable() error {
	return h.registry.ResumeOne(h.id)
}

// Disable suspends the registration's OS side, keeping the record.
func (h *Handle) Disable() error {
	return h.registry.SuspendOne(h.id)
}

// Release unregisters for good.
func (h *Handle) Release() error {
	return h.registry.Unregister(h.id)
}
