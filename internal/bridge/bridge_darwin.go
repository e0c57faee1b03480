//go:build darwin

package bridge

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/barkeepapp/barkeep/internal/geometry"
)

// New returns the live window-server bridge.
func New() (*Darwin, error) {
	if err := loadFrameworks(); err != nil {
		return nil, err
	}
	return &Darwin{cid: cgsMainConnectionID()}, nil
}

// Darwin implements WindowServer and HotkeyFacility over CoreGraphics, the
// private CGS connection, and Carbon.
type Darwin struct {
	cid int32

	handlerOnce sync.Once
	handlerErr  error
	menuOnce    sync.Once
	menuErr     error

	mu           sync.Mutex
	callback     func(HotkeyEvent) bool
	menuCallback func(active bool)
}

type cgPoint struct {
	X float64
	Y float64
}

type cgRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type eventTypeSpec struct {
	EventClass uint32
	EventKind  uint32
}

const (
	cfStringEncodingUTF8 = 0x08000100
	kCFNumberSInt32Type  = 3
	kCFNumberSInt64Type  = 4
	kCFNumberFloat64Type = 6

	kCGWindowListOptionAll             = 0
	kCGWindowListOptionIncludingWindow = 1 << 3
	kCGWindowImageBoundsIgnoreFraming  = 1 << 0

	kCGHIDEventTap          = 0
	kCGEventLeftMouseDown   = 1
	kCGEventLeftMouseUp     = 2
	kCGEventMouseMoved      = 5
	kCGEventLeftMouseDragged = 6
	kCGMouseButtonLeft      = 0
	kCGEventFlagMaskCommand = 0x100000

	kEventClassKeyboard  = 0x6b657962 // 'keyb'
	kEventHotKeyPressed  = 5
	kEventHotKeyReleased = 6

	kEventClassMenu         = 0x6d656e75 // 'menu'
	kEventMenuBeginTracking = 1
	kEventMenuEndTracking   = 2
	kEventParamDirectObject = 0x2d2d2d2d // '----'
	typeEventHotKeyID       = 0x686b6964 // 'hkid'

	noErr               = 0
	eventNotHandledErr  = -9874
	hotkeySignature     = 0x424b5052 // 'BKPR'
)

var (
	loadOnce sync.Once
	loadErr  error

	cgsMainConnectionID       func() int32
	cgsGetScreenRectForWindow func(cid int32, wid uint32, out *cgRect) int32

	cgWindowListCopyWindowInfo func(option uint32, relativeTo uint32) uintptr
	cgWindowListCreateImage    func(bounds cgRect, option uint32, wid uint32, imageOption uint32) uintptr
	cgImageGetDataProvider     func(image uintptr) uintptr
	cgDataProviderCopyData     func(provider uintptr) uintptr
	cgRectFromDictionary       func(dict uintptr, out *cgRect) bool
	cgEventCreateMouseEvent    func(source uintptr, eventType uint32, pos cgPoint, button uint32) uintptr
	cgEventSetFlags            func(event uintptr, flags uint64)
	cgEventPost                func(tap uint32, event uintptr)

	cfRelease                func(ref uintptr)
	cfArrayGetCount          func(arr uintptr) int64
	cfArrayGetValueAtIndex   func(arr uintptr, idx int64) uintptr
	cfDictionaryGetValue     func(dict uintptr, key uintptr) uintptr
	cfStringCreateWithCString func(alloc uintptr, cstr *byte, encoding uint32) uintptr
	cfStringGetCString       func(str uintptr, buf *byte, size int64, encoding uint32) bool
	cfNumberGetValue         func(num uintptr, numType int64, out unsafe.Pointer) bool
	cfBooleanGetValue        func(b uintptr) bool
	cfDataGetLength          func(data uintptr) int64
	cfDataGetBytePtr         func(data uintptr) uintptr

	getEventDispatcherTarget func() uintptr
	installEventHandler      func(target uintptr, handler uintptr, numTypes int64, typeList *eventTypeSpec, userData uintptr, outRef *uintptr) int32
	getEventParameter        func(event uintptr, name uint32, desiredType uint32, actualType *uint32, bufSize uint64, actualSize *uint64, data unsafe.Pointer) int32
	getEventKind             func(event uintptr) uint32
	registerEventHotKey      func(keyCode uint32, modifiers uint32, id uint64, target uintptr, options uint32, outRef *uintptr) int32
	unregisterEventHotKey    func(ref uintptr) int32
	copySymbolicHotKeys      func(out *uintptr) int32
	getProcessForPID         func(pid int32, psn *[2]uint32) int32
	cgsEventIsAppUnresponsive func(cid int32, psn *[2]uint32) bool

	keyWindowNumber    uintptr
	keyWindowOwnerPID  uintptr
	keyWindowOwnerName uintptr
	keyWindowName      uintptr
	keyWindowBounds    uintptr
	keyWindowIsOnscreen uintptr
	keyWindowLayer     uintptr
	keyWindowAlpha     uintptr
	keySymbolicCode    uintptr
	keySymbolicMods    uintptr
	keySymbolicEnabled uintptr
)

func loadFrameworks() error {
	loadOnce.Do(func() {
		cg, err := purego.Dlopen("/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load CoreGraphics: %w", err)
			return
		}
		cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load CoreFoundation: %w", err)
			return
		}
		carbon, err := purego.Dlopen("/System/Library/Frameworks/Carbon.framework/Carbon", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load Carbon: %w", err)
			return
		}

		purego.RegisterLibFunc(&cgsMainConnectionID, cg, "CGSMainConnectionID")
		purego.RegisterLibFunc(&cgsGetScreenRectForWindow, cg, "CGSGetScreenRectForWindow")
		purego.RegisterLibFunc(&cgsEventIsAppUnresponsive, cg, "CGSEventIsAppUnresponsive")
		purego.RegisterLibFunc(&cgWindowListCopyWindowInfo, cg, "CGWindowListCopyWindowInfo")
		purego.RegisterLibFunc(&cgWindowListCreateImage, cg, "CGWindowListCreateImage")
		purego.RegisterLibFunc(&cgImageGetDataProvider, cg, "CGImageGetDataProvider")
		purego.RegisterLibFunc(&cgDataProviderCopyData, cg, "CGDataProviderCopyData")
		purego.RegisterLibFunc(&cgRectFromDictionary, cg, "CGRectMakeWithDictionaryRepresentation")
		purego.RegisterLibFunc(&cgEventCreateMouseEvent, cg, "CGEventCreateMouseEvent")
		purego.RegisterLibFunc(&cgEventSetFlags, cg, "CGEventSetFlags")
		purego.RegisterLibFunc(&cgEventPost, cg, "CGEventPost")

		purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
		purego.RegisterLibFunc(&cfArrayGetCount, cf, "CFArrayGetCount")
		purego.RegisterLibFunc(&cfArrayGetValueAtIndex, cf, "CFArrayGetValueAtIndex")
		purego.RegisterLibFunc(&cfDictionaryGetValue, cf, "CFDictionaryGetValue")
		purego.RegisterLibFunc(&cfStringCreateWithCString, cf, "CFStringCreateWithCString")
		purego.RegisterLibFunc(&cfStringGetCString, cf, "CFStringGetCString")
		purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
		purego.RegisterLibFunc(&cfBooleanGetValue, cf, "CFBooleanGetValue")
		purego.RegisterLibFunc(&cfDataGetLength, cf, "CFDataGetLength")
		purego.RegisterLibFunc(&cfDataGetBytePtr, cf, "CFDataGetBytePtr")

		purego.RegisterLibFunc(&getEventDispatcherTarget, carbon, "GetEventDispatcherTarget")
		purego.RegisterLibFunc(&installEventHandler, carbon, "InstallEventHandler")
		purego.RegisterLibFunc(&getEventParameter, carbon, "GetEventParameter")
		purego.RegisterLibFunc(&getEventKind, carbon, "GetEventKind")
		purego.RegisterLibFunc(&registerEventHotKey, carbon, "RegisterEventHotKey")
		purego.RegisterLibFunc(&unregisterEventHotKey, carbon, "UnregisterEventHotKey")
		purego.RegisterLibFunc(&copySymbolicHotKeys, carbon, "CopySymbolicHotKeys")
		purego.RegisterLibFunc(&getProcessForPID, carbon, "GetProcessForPID")

		keyWindowNumber = cfStr("kCGWindowNumber")
		keyWindowOwnerPID = cfStr("kCGWindowOwnerPID")
		keyWindowOwnerName = cfStr("kCGWindowOwnerName")
		keyWindowName = cfStr("kCGWindowName")
		keyWindowBounds = cfStr("kCGWindowBounds")
		keyWindowIsOnscreen = cfStr("kCGWindowIsOnscreen")
		keyWindowLayer = cfStr("kCGWindowLayer")
		keyWindowAlpha = cfStr("kCGWindowAlpha")
		keySymbolicCode = cfStr("kHISymbolicHotKeyCode")
		keySymbolicMods = cfStr("kHISymbolicHotKeyModifiers")
		keySymbolicEnabled = cfStr("kHISymbolicHotKeyEnabled")
	})
	return loadErr
}

func cfStr(s string) uintptr {
	b := append([]byte(s), 0)
	return cfStringCreateWithCString(0, &b[0], cfStringEncodingUTF8)
}

func goString(ref uintptr) string {
	if ref == 0 {
		return ""
	}
	buf := make([]byte, 512)
	if !cfStringGetCString(ref, &buf[0], int64(len(buf)), cfStringEncodingUTF8) {
		return ""
	}
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func dictInt64(dict, key uintptr) (int64, bool) {
	num := cfDictionaryGetValue(dict, key)
	if num == 0 {
		return 0, false
	}
	var v int64
	ok := cfNumberGetValue(num, kCFNumberSInt64Type, unsafe.Pointer(&v))
	return v, ok
}

func dictFloat(dict, key uintptr) (float64, bool) {
	num := cfDictionaryGetValue(dict, key)
	if num == 0 {
		return 0, false
	}
	var v float64
	ok := cfNumberGetValue(num, kCFNumberFloat64Type, unsafe.Pointer(&v))
	return v, ok
}

func dictBool(dict, key uintptr) bool {
	b := cfDictionaryGetValue(dict, key)
	if b == 0 {
		return false
	}
	return cfBooleanGetValue(b)
}

// MenuBarWindows enumerates every window known to the window server and
// keeps the fields the classifier needs. Layer filtering happens upstream;
// the bridge reports what the server reports.
func (d *Darwin) MenuBarWindows() ([]WindowInfo, error) {
	arr := cgWindowListCopyWindowInfo(kCGWindowListOptionAll, 0)
	if arr == 0 {
		return nil, fmt.Errorf("bridge: window list unavailable")
	}
	defer cfRelease(arr)

	count := cfArrayGetCount(arr)
	out := make([]WindowInfo, 0, count)
	for i := int64(0); i < count; i++ {
		dict := cfArrayGetValueAtIndex(arr, i)
		if dict == 0 {
			continue
		}
		id, ok := dictInt64(dict, keyWindowNumber)
		if !ok {
			continue
		}
		pid, _ := dictInt64(dict, keyWindowOwnerPID)
		layer, _ := dictInt64(dict, keyWindowLayer)
		alpha, ok := dictFloat(dict, keyWindowAlpha)
		if !ok {
			alpha = 1
		}

		var bounds cgRect
		if boundsDict := cfDictionaryGetValue(dict, keyWindowBounds); boundsDict != 0 {
			cgRectFromDictionary(boundsDict, &bounds)
		}

		out = append(out, WindowInfo{
			ID:        uint32(id),
			OwnerPID:  int32(pid),
			OwnerName: goString(cfDictionaryGetValue(dict, keyWindowOwnerName)),
			Title:     goString(cfDictionaryGetValue(dict, keyWindowName)),
			Frame:     geometry.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height},
			OnScreen:  dictBool(dict, keyWindowIsOnscreen),
			Layer:     int32(layer),
			Alpha:     alpha,
		})
	}
	return out, nil
}

// WindowFrame queries a single frame through the CGS connection, which is
// cheaper and fresher than a full enumeration while a move settles.
func (d *Darwin) WindowFrame(id uint32) (geometry.Rect, error) {
	var r cgRect
	if status := cgsGetScreenRectForWindow(d.cid, id, &r); status != noErr {
		return geometry.Rect{}, fmt.Errorf("bridge: screen rect for window %d: status %d", id, status)
	}
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

// MoveMenuBarItem synthesizes the command-drag gesture a user would perform.
// Status items have no repositioning API, so the drag is the mechanism.
func (d *Darwin) MoveMenuBarItem(id uint32, originX float64) error {
	frame, err := d.WindowFrame(id)
	if err != nil {
		return err
	}
	from := cgPoint{X: frame.MidX(), Y: frame.Y + frame.Height/2}
	to := cgPoint{X: originX + frame.Width/2, Y: from.Y}

	post := func(eventType uint32, pos cgPoint, flags uint64) {
		ev := cgEventCreateMouseEvent(0, eventType, pos, kCGMouseButtonLeft)
		if ev == 0 {
			return
		}
		if flags != 0 {
			cgEventSetFlags(ev, flags)
		}
		cgEventPost(kCGHIDEventTap, ev)
		cfRelease(ev)
	}

	post(kCGEventMouseMoved, from, 0)
	post(kCGEventLeftMouseDown, from, kCGEventFlagMaskCommand)
	post(kCGEventLeftMouseDragged, to, kCGEventFlagMaskCommand)
	post(kCGEventLeftMouseUp, to, kCGEventFlagMaskCommand)
	return nil
}

// IsProcessResponsive asks the window server whether the owner is servicing
// events. Unknown processes count as unresponsive.
func (d *Darwin) IsProcessResponsive(pid int32) bool {
	var psn [2]uint32
	if status := getProcessForPID(pid, &psn); status != noErr {
		return false
	}
	return !cgsEventIsAppUnresponsive(d.cid, &psn)
}

// CaptureWindow renders the window into raw bitmap bytes. Windows that
// produce no image yield (nil, nil).
func (d *Darwin) CaptureWindow(id uint32) ([]byte, error) {
	image := cgWindowListCreateImage(cgRect{}, kCGWindowListOptionIncludingWindow, id, kCGWindowImageBoundsIgnoreFraming)
	if image == 0 {
		return nil, nil
	}
	defer cfRelease(image)

	provider := cgImageGetDataProvider(image)
	if provider == 0 {
		return nil, nil
	}
	data := cgDataProviderCopyData(provider)
	if data == 0 {
		return nil, nil
	}
	defer cfRelease(data)

	length := cfDataGetLength(data)
	if length <= 0 {
		return nil, nil
	}
	ptr := cfDataGetBytePtr(data)
	return append([]byte(nil), unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length)...), nil
}

// InstallHandler installs the shared Carbon handler once per process.
func (d *Darwin) InstallHandler(callback func(HotkeyEvent) bool) error {
	d.mu.Lock()
	d.callback = callback
	d.mu.Unlock()

	d.handlerOnce.Do(func() {
		types := []eventTypeSpec{
			{EventClass: kEventClassKeyboard, EventKind: kEventHotKeyPressed},
			{EventClass: kEventClassKeyboard, EventKind: kEventHotKeyReleased},
		}
		cb := purego.NewCallback(func(callRef, event, userData uintptr) int32 {
			return d.handleEvent(event)
		})
		var ref uintptr
		status := installEventHandler(getEventDispatcherTarget(), cb, int64(len(types)), &types[0], 0, &ref)
		if status != noErr {
			d.handlerErr = fmt.Errorf("bridge: install event handler: status %d", status)
		}
	})
	return d.handlerErr
}

func (d *Darwin) handleEvent(event uintptr) int32 {
	var hkid struct {
		Signature uint32
		ID        uint32
	}
	status := getEventParameter(event, kEventParamDirectObject, typeEventHotKeyID, nil, uint64(unsafe.Sizeof(hkid)), nil, unsafe.Pointer(&hkid))
	if status != noErr || hkid.Signature != hotkeySignature {
		return eventNotHandledErr
	}
	kind := KeyDown
	if getEventKind(event) == kEventHotKeyReleased {
		kind = KeyUp
	}
	d.mu.Lock()
	callback := d.callback
	d.mu.Unlock()
	if callback == nil || !callback(HotkeyEvent{ID: hkid.ID, Kind: kind}) {
		return eventNotHandledErr
	}
	return noErr
}

// ObserveMenuTracking installs a Carbon handler for menu begin/end tracking
// once per process. The handler never consumes the event; tracking proceeds
// normally while the observer runs.
func (d *Darwin) ObserveMenuTracking(callback func(active bool)) error {
	d.mu.Lock()
	d.menuCallback = callback
	d.mu.Unlock()

	d.menuOnce.Do(func() {
		types := []eventTypeSpec{
			{EventClass: kEventClassMenu, EventKind: kEventMenuBeginTracking},
			{EventClass: kEventClassMenu, EventKind: kEventMenuEndTracking},
		}
		cb := purego.NewCallback(func(callRef, event, userData uintptr) int32 {
			active := getEventKind(event) == kEventMenuBeginTracking
			d.mu.Lock()
			observer := d.menuCallback
			d.mu.Unlock()
			if observer != nil {
				observer(active)
			}
			return eventNotHandledErr
		})
		var ref uintptr
		status := installEventHandler(getEventDispatcherTarget(), cb, int64(len(types)), &types[0], 0, &ref)
		if status != noErr {
			d.menuErr = fmt.Errorf("bridge: install menu-tracking handler: status %d", status)
		}
	})
	return d.menuErr
}

// Register asks Carbon for a system-wide hotkey registration.
func (d *Darwin) Register(keyCode, modifiers, id uint32) (uintptr, int32, error) {
	var ref uintptr
	packed := uint64(hotkeySignature) | uint64(id)<<32
	status := registerEventHotKey(keyCode, modifiers, packed, getEventDispatcherTarget(), 0, &ref)
	if status != noErr {
		return 0, status, nil
	}
	return ref, noErr, nil
}

// Unregister releases a Carbon hotkey registration.
func (d *Darwin) Unregister(ref uintptr) error {
	if ref == 0 {
		return nil
	}
	if status := unregisterEventHotKey(ref); status != noErr {
		return fmt.Errorf("bridge: unregister hotkey: status %d", status)
	}
	return nil
}

// ReservedCombinations lists enabled symbolic hotkeys so registration can
// refuse combinations the system already claims.
func (d *Darwin) ReservedCombinations() ([][2]uint32, error) {
	var arr uintptr
	if status := copySymbolicHotKeys(&arr); status != noErr || arr == 0 {
		return nil, fmt.Errorf("bridge: copy symbolic hotkeys: status %d", status)
	}
	defer cfRelease(arr)

	count := cfArrayGetCount(arr)
	out := make([][2]uint32, 0, count)
	for i := int64(0); i < count; i++ {
		dict := cfArrayGetValueAtIndex(arr, i)
		if dict == 0 || !dictBool(dict, keySymbolicEnabled) {
			continue
		}
		code, okCode := dictInt64(dict, keySymbolicCode)
		mods, okMods := dictInt64(dict, keySymbolicMods)
		if !okCode || !okMods {
			continue
		}
		out = append(out, [2]uint32{uint32(code), uint32(mods)})
	}
	return out, nil
}
