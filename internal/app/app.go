// Package app wires the daemon together: bridge, marker sections, snapshot
// watcher, classifier, mover, hotkeys, and the config file.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/barkeepapp/barkeep/internal/action"
	"github.com/barkeepapp/barkeep/internal/backend"
	"github.com/barkeepapp/barkeep/internal/bridge"
	"github.com/barkeepapp/barkeep/internal/config"
	"github.com/barkeepapp/barkeep/internal/data/dispatcher"
	"github.com/barkeepapp/barkeep/internal/engine"
	"github.com/barkeepapp/barkeep/internal/hotkey"
	"github.com/barkeepapp/barkeep/internal/imagecache"
	"github.com/barkeepapp/barkeep/internal/item"
	"github.com/barkeepapp/barkeep/internal/logging"
	"github.com/barkeepapp/barkeep/internal/logging/events"
	"github.com/barkeepapp/barkeep/internal/mover"
	"github.com/barkeepapp/barkeep/internal/prefs"
	"github.com/barkeepapp/barkeep/internal/section"
	"github.com/barkeepapp/barkeep/internal/state"
	"github.com/barkeepapp/barkeep/internal/ui"
	"github.com/barkeepapp/barkeep/internal/windows"
)

const (
	defaultRehideDelay = 10 * time.Second
	moveTimeout        = 5 * time.Second
)

// App owns every long-lived component of the daemon.
type App struct {
	provider  windows.Provider
	prefs     *prefs.Store
	sections  *section.Manager
	loop      *engine.Loop
	items     state.ItemStore
	tempShown state.TempShownStore
	registry  *hotkey.Registry
	actions   *action.Dispatcher
	mover     *mover.Mover
	images    *imagecache.Cache
	watcher   *backend.Watcher
	debouncer *backend.Debouncer
	rehider   *Rehider
	handler   *dispatcher.Dispatcher
	cfgWatch  *config.FileWatcher

	// appMenus tracks the toggle-application-menus state: which interior
	// sections to restore, and to what, when toggled back.
	appMenusActive  bool
	appMenusRestore map[section.Name]section.HidingState

	searchBusy atomic.Bool

	latest atomic.Pointer[backend.Event]
}

// Run bootstraps the daemon and blocks until SIGINT or SIGTERM.
func Run(cfg config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}
	defer a.Stop("signal")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	return nil
}

// New assembles and starts every component.
func New(cfg config.Config) (*App, error) {
	server, err := bridge.New()
	if err != nil {
		return nil, fmt.Errorf("open window-server bridge: %w", err)
	}

	prefsPath := cfg.Daemon.PrefsPath
	if prefsPath == "" {
		prefsPath, err = prefs.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve prefs path: %w", err)
		}
	}
	store, err := prefs.Open(prefsPath)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}

	ownPID := int32(os.Getpid())
	surface := MarkerSurface(traceSurface{})
	a := &App{
		provider:  windows.NewServerProvider(server),
		prefs:     store,
		loop:      engine.Start(),
		items:     state.NewItemStore(),
		tempShown: state.NewTempShownStore(),
		registry:  hotkey.NewRegistry(server),
		images:    imagecache.New(server),
	}
	a.sections = section.NewManager(func(name section.Name) section.Host {
		return newMarkerHost(surface, server, ownPID, name)
	}, store)
	a.handler = dispatcher.New(a.items, a.sections, ownPID)
	a.mover = mover.New(server, a.provider)

	a.rehider = NewRehider(defaultRehideDelay, a.loop.Perform, a.collapseHidden)
	a.actions = action.NewDispatcher(a.registry, a.sections, a.rehider, a.loop.Perform)
	a.actions.SetHandler(action.ToggleApplicationMenus, a.toggleApplicationMenus)
	a.actions.SetHandler(action.ShowSectionDividers, a.showSectionDividers)
	a.actions.SetHandler(action.SearchMenuBarItems, a.searchMenuBarItems)

	if err := server.ObserveMenuTracking(a.menuTracking); err != nil {
		// Without the observer hotkeys stay registered during menu tracking;
		// degraded but workable.
		logging.Error(fmt.Errorf("observe menu tracking: %w", err))
	}

	if err := a.start(cfg); err != nil {
		a.Stop("startup failed")
		return nil, err
	}
	return a, nil
}

func (a *App) start(cfg config.Config) error {
	var startErr error
	a.loop.PerformSync(func() { startErr = a.sections.Start() })
	if startErr != nil {
		return startErr
	}

	cfgPath := cfg.Daemon.FilePath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultFilePath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
	}
	file, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}
	a.loop.PerformSync(func() { a.applyFile(file) })

	a.cfgWatch, err = config.WatchFile(cfgPath, func(f config.File) {
		a.loop.Perform(func() { a.applyFile(f) })
	})
	if err != nil {
		// Live reload is a convenience; the daemon runs without it.
		logging.Error(err)
		a.cfgWatch = nil
	}

	a.debouncer = backend.NewDebouncer(cfg.Daemon.DebounceDelay, func() {
		evt := a.latest.Load()
		if evt == nil {
			return
		}
		a.loop.Perform(func() { a.classifyPass(*evt) })
	})
	a.watcher = backend.NewWatcher(a.provider, cfg.Daemon.PollInterval)
	go a.pump()
	return nil
}

// classifyPass runs on the engine loop: classify the snapshot, settle
// temporarily-shown items that landed, and feed the rehide timer.
func (a *App) classifyPass(evt backend.Event) {
	a.handler.Handle(evt)
	a.settleTempShown()
	if s, ok := a.sections.Section(section.Hidden); ok {
		a.rehider.Observe(!s.IsHidden())
	}
}

// settleTempShown drops temp-shown entries once a snapshot shows the item in
// the visible section; until then the rehide pass leaves it alone.
func (a *App) settleTempShown() {
	p := a.items.Partition()
	for _, id := range a.tempShown.IDs() {
		if !visibleHas(p.Visible, id) {
			continue
		}
		a.tempShown.Remove(id)
		events.Item.TempShownCleared(id)
	}
}

func visibleHas(items []item.Item, id uint32) bool {
	for _, it := range items {
		if it.WindowID == id {
			return true
		}
	}
	return false
}

// pump moves watcher events into the debounced classification path.
func (a *App) pump() {
	for evt := range a.watcher.Events() {
		e := evt
		a.latest.Store(&e)
		a.debouncer.Trigger()
	}
}

// Stop tears everything down in dependency order. Safe to call once.
func (a *App) Stop(reason string) {
	events.App.Stop(reason)
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher.Wait()
	}
	if a.debouncer != nil {
		a.debouncer.Stop()
	}
	if a.cfgWatch != nil {
		a.cfgWatch.Close()
	}
	a.rehider.Stop()
	a.loop.PerformSync(func() {
		if err := a.actions.UnbindAll(); err != nil {
			logging.Error(err)
		}
		a.sections.Stop()
	})
	a.loop.Stop()
	if err := a.prefs.Close(); err != nil {
		logging.Error(err)
	}
}

// applyFile rebinds hotkeys and retunes the mover from a config file. Runs
// on the engine loop. A binding that fails (reserved, refused) is logged
// and skipped; the rest still bind.
func (a *App) applyFile(f config.File) {
	bindings, err := f.ParsedBindings()
	if err != nil {
		logging.Error(err)
		return
	}
	if err := a.actions.UnbindAll(); err != nil {
		logging.Error(err)
	}
	for name, combo := range bindings {
		if err := a.actions.Bind(name, combo); err != nil {
			logging.Error(fmt.Errorf("bind %s: %w", name, err))
		}
	}

	if f.Move.Tolerance > 0 {
		a.mover.Tolerance = f.Move.Tolerance
	}
	if f.Move.MaxAttempts > 0 {
		a.mover.MaxAttempts = f.Move.MaxAttempts
	}
	a.mover.SettleDelay = f.Move.SettleDuration(mover.DefaultSettleDelay)
}

// collapseHidden is the rehide timer's target. A non-empty temp-shown set
// means an interaction is still holding items out; the pass is skipped and
// the next snapshot reschedules it.
func (a *App) collapseHidden() {
	if len(a.tempShown.IDs()) > 0 {
		return
	}
	if s, ok := a.sections.Section(section.Hidden); ok {
		s.Hide()
	}
}

// menuTracking releases every hotkey while a native menu is open and takes
// them back when tracking ends.
func (a *App) menuTracking(active bool) {
	if active {
		a.registry.Suspend()
	} else {
		a.registry.Resume()
	}
}

// toggleApplicationMenus collapses the interior sections so the frontmost
// app's own menus have the strip, then restores them on the second press.
// Runs on the engine loop.
func (a *App) toggleApplicationMenus() {
	if !a.appMenusActive {
		a.appMenusRestore = make(map[section.Name]section.HidingState, 2)
		for _, name := range []section.Name{section.Hidden, section.AlwaysHidden} {
			s, ok := a.sections.Section(name)
			if !ok || !s.IsEnabled() {
				continue
			}
			a.appMenusRestore[name] = s.ControlItem().State()
			s.Hide()
		}
		a.appMenusActive = true
		return
	}
	for name, st := range a.appMenusRestore {
		s, ok := a.sections.Section(name)
		if !ok {
			continue
		}
		if st == section.ShowItems {
			s.Show()
		} else {
			s.Hide()
		}
	}
	a.appMenusActive = false
	a.appMenusRestore = nil
}

// showSectionDividers reveals every section so the dividers are visible for
// rearranging. Runs on the engine loop.
func (a *App) showSectionDividers() {
	for _, name := range section.Names() {
		if s, ok := a.sections.Section(name); ok && s.IsEnabled() {
			s.Show()
		}
	}
	a.rehider.SuspendOnce()
}

// searchMenuBarItems opens the picker off-loop and reveals the chosen item.
// At most one picker runs at a time.
func (a *App) searchMenuBarItems() {
	if !a.searchBusy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer a.searchBusy.Store(false)
		var p item.Partition
		a.loop.PerformSync(func() { p = a.items.Partition() })

		entries := ui.Entries(p)
		// Warm the bitmap cache so selection previews render without a
		// capture stall mid-interaction.
		for _, e := range entries {
			a.images.Image(e.Item.WindowID)
		}

		entry, ok, err := ui.Run(entries)
		if err != nil {
			logging.Error(err)
			return
		}
		if !ok {
			return
		}
		a.Reveal(entry.Item)
	}()
}

// Reveal moves an item into the visible section and marks it temporarily
// shown, so the rehide pass leaves it alone until a snapshot confirms it
// settled. The temp-shown store is only ever touched on the engine loop; the
// mover just moves.
func (a *App) Reveal(it item.Item) {
	var (
		dest  mover.Destination
		valid bool
	)
	a.loop.PerformSync(func() {
		if a.tempShown.Contains(it.WindowID) {
			return
		}
		marker, ok := a.markerItem(section.Hidden)
		if !ok {
			return
		}
		p := a.items.Partition()
		anchor, _ := mover.Anchor(p.Visible, marker)
		dest = mover.RightOf(anchor)
		valid = true
		a.tempShown.Add(it.WindowID)
		events.Item.TempShown(it.WindowID)
	})
	if !valid {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), moveTimeout)
	defer cancel()
	if err := a.mover.Move(ctx, it, dest); err != nil {
		logging.Error(fmt.Errorf("reveal %s: %w", it.DisplayName(), err))
		a.loop.Perform(func() {
			a.tempShown.Remove(it.WindowID)
			events.Item.TempShownCleared(it.WindowID)
		})
	}
}

// markerItem projects a section's marker window into an item value the
// mover can anchor against.
func (a *App) markerItem(name section.Name) (item.Item, bool) {
	ci, ok := a.sections.ControlItem(name)
	if !ok {
		return item.Item{}, false
	}
	frame, ok := ci.Frame()
	if !ok {
		return item.Item{}, false
	}
	id, _ := ci.WindowID()
	return item.Item{WindowID: id, Frame: frame, Movable: true}, true
}
