//go:build darwin

// Package native loads the host's private simulator-control, UI-helper, and
// accessibility-translation libraries and resolves the fixed set of C entry
// points and Objective-C classes the rest of the system drives. Resolution
// happens once, lazily, on first use; every call after that reuses the
// cached handles and function pointers.
package native

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/riwsky/iosef/internal/deadline"
)

// Host library paths, relative to the active Xcode developer directory. In
// production this root is resolved by shelling out to `xcode-select -p`;
// tests and callers that only need symbol resolution against system
// libraries can use NewBridge with explicit overrides.
const (
	DeviceControlLib = "Platforms/iPhoneSimulator.platform/Developer/Library/PrivateFrameworks/CoreSimulator.framework/CoreSimulator"
	UIHelperLib      = "Platforms/iPhoneSimulator.platform/Developer/Library/PrivateFrameworks/SimulatorKit.framework/SimulatorKit"
	AccessibilityLib = "../SharedFrameworks/DTXConnectionServices.framework/DTXConnectionServices"
)

// ObjHandle is an opaque reference to a native Objective-C object. Ownership
// is native-reference-counted; callers never free it directly.
type ObjHandle uintptr

func (h ObjHandle) Valid() bool { return h != 0 }

// Bridge is the process-wide native symbol bridge. One Bridge is created per
// process and shared by every SimulatorHandle, HID client, and accessibility
// bridge.
type Bridge struct {
	devRoot string

	mu     sync.Mutex
	loaded bool

	rt *objcRuntime

	deviceControl uintptr
	uiHelper      uintptr
	accessibility uintptr

	deviceSetClass   uintptr
	translatorClass  uintptr
	responseClass    uintptr
	hidClientClass   uintptr
	legacyHIDClass   uintptr

	hidMessageForMouseEvent        uintptr
	hidMessageForButton            uintptr
	hidMessageForKeyboardArbitrary uintptr

	translator ObjHandle
}

// NewBridge constructs a Bridge rooted at the given Xcode developer
// directory. Loading is deferred until EnsureLoaded (or any operation that
// needs it) is first called.
func NewBridge(developerDir string) *Bridge {
	return &Bridge{devRoot: developerDir}
}

func (b *Bridge) libPath(rel string) string {
	return b.devRoot + "/" + rel
}

// EnsureLoaded loads the three host libraries and resolves the fixed symbol
// set if it hasn't already. Safe to call repeatedly and from multiple
// goroutines; only the first caller does any work.
func (b *Bridge) EnsureLoaded() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return nil
	}

	rt, err := loadObjcRuntime()
	if err != nil {
		return err
	}
	b.rt = rt

	if b.deviceControl, err = b.dlopen(DeviceControlLib); err != nil {
		return err
	}
	if b.uiHelper, err = b.dlopen(UIHelperLib); err != nil {
		return err
	}
	if b.accessibility, err = b.dlopen(AccessibilityLib); err != nil {
		return err
	}

	if b.hidMessageForMouseEvent, err = purego.Dlsym(b.uiHelper, "HIDMessageForMouseEvent"); err != nil {
		return &SymbolMissing{Name: "HIDMessageForMouseEvent", Lib: UIHelperLib}
	}
	if b.hidMessageForButton, err = purego.Dlsym(b.uiHelper, "HIDMessageForButton"); err != nil {
		return &SymbolMissing{Name: "HIDMessageForButton", Lib: UIHelperLib}
	}
	if b.hidMessageForKeyboardArbitrary, err = purego.Dlsym(b.uiHelper, "HIDMessageForKeyboardArbitrary"); err != nil {
		return &SymbolMissing{Name: "HIDMessageForKeyboardArbitrary", Lib: UIHelperLib}
	}

	if b.deviceSetClass, err = rt.class("SimDeviceSet"); err != nil {
		return err
	}
	if b.translatorClass, err = rt.class("XCAXClientProxy"); err != nil {
		return err
	}
	if b.responseClass, err = rt.class("AXPTranslationObjectResponse"); err != nil {
		return err
	}
	if b.hidClientClass, err = rt.class("SimDeviceIOHIDClient"); err != nil {
		return err
	}
	// The legacy HID client type mentioned in the host's UI-helper library;
	// present on older Xcode toolchains only. Absence is not fatal here, it
	// only disables the legacy send path.
	b.legacyHIDClass, _ = rt.class("SimDeviceLegacyHIDClient")

	b.loaded = true
	return nil
}

func (b *Bridge) dlopen(rel string) (uintptr, error) {
	path := b.libPath(rel)
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, &FrameworkLoad{Path: path, Err: err}
	}
	return h, nil
}

// LookupDevice resolves a SimulatorHandle for a device UUID via the host's
// default device set.
func (b *Bridge) LookupDevice(udid string) (ObjHandle, error) {
	if err := b.EnsureLoaded(); err != nil {
		return 0, err
	}
	rt := b.rt

	selDefaultSet := rt.sel("defaultSet")
	deviceSet := rt.send0(b.deviceSetClass, selDefaultSet)
	if deviceSet == 0 {
		return 0, fmt.Errorf("native: SimDeviceSet defaultSet returned nil")
	}

	nsUDID := b.nsString(udid)
	selDeviceForUDID := rt.sel("deviceWithUDID:")
	device := rt.send1(deviceSet, selDeviceForUDID, uintptr(nsUDID))
	if device == 0 {
		return 0, fmt.Errorf("native: no device registered for udid %s", udid)
	}
	return ObjHandle(device), nil
}

// ScreenSize returns the device's pixel screen size, falling back to a sane
// default (iPhone-class 828x1792 @2x-ish) if the deviceType lookup fails.
func (b *Bridge) ScreenSize(h ObjHandle) (width, height int) {
	const defaultW, defaultH = 828, 1792
	if err := b.EnsureLoaded(); err != nil || !h.Valid() {
		return defaultW, defaultH
	}
	rt := b.rt
	deviceType := rt.send0(uintptr(h), rt.sel("deviceType"))
	if deviceType == 0 {
		return defaultW, defaultH
	}
	sizeObj := rt.send0(deviceType, rt.sel("mainScreenSize"))
	if sizeObj == 0 {
		return defaultW, defaultH
	}
	w := int(b.readDouble(ObjHandle(sizeObj), "width"))
	ht := int(b.readDouble(ObjHandle(sizeObj), "height"))
	if w <= 0 || ht <= 0 {
		return defaultW, defaultH
	}
	return w, ht
}

// ScreenScale returns the device's screen scale factor, defaulting to 2.0.
func (b *Bridge) ScreenScale(h ObjHandle) float64 {
	const defaultScale = 2.0
	if err := b.EnsureLoaded(); err != nil || !h.Valid() {
		return defaultScale
	}
	rt := b.rt
	deviceType := rt.send0(uintptr(h), rt.sel("deviceType"))
	if deviceType == 0 {
		return defaultScale
	}
	scale := b.readDouble(ObjHandle(deviceType), "mainScreenScale")
	if scale <= 0 {
		return defaultScale
	}
	return scale
}

// CreateHIDClient constructs an IOHID client bound to the given device
// handle.
func (b *Bridge) CreateHIDClient(h ObjHandle) (ObjHandle, error) {
	if err := b.EnsureLoaded(); err != nil {
		return 0, err
	}
	rt := b.rt
	client := rt.send1(b.hidClientClass, rt.sel("clientForDevice:"), uintptr(h))
	if client == 0 {
		return 0, fmt.Errorf("native: REGISTER_HID failed: client creation returned nil")
	}
	return ObjHandle(client), nil
}

// SendHIDMessage dispatches a packed wire message over the client's channel.
// Dispatch is one-shot, asynchronous, and unacknowledged from this call's
// perspective.
func (b *Bridge) SendHIDMessage(msg []byte, client ObjHandle) error {
	if err := b.EnsureLoaded(); err != nil {
		return err
	}
	if !client.Valid() {
		return fmt.Errorf("native: send-HID-message: nil client")
	}
	rt := b.rt
	data := make([]byte, len(msg))
	copy(data, msg)
	ptr := uintptr(unsafe.Pointer(&data[0]))
	nsData := rt.send2(b.nsDataClass(), rt.sel("dataWithBytes:length:"), ptr, uintptr(len(data)))
	if nsData == 0 {
		return fmt.Errorf("native: send-HID-message: NSData construction failed")
	}
	rt.sendVoid2(uintptr(client), rt.sel("sendMessage:freeWhenDone:"), nsData, 1)
	return nil
}

// GetTranslator returns the host's process-wide accessibility translator
// singleton, caching it for the Bridge's lifetime.
func (b *Bridge) GetTranslator() (ObjHandle, error) {
	if err := b.EnsureLoaded(); err != nil {
		return 0, err
	}
	if b.translator.Valid() {
		return b.translator, nil
	}
	rt := b.rt
	t := rt.send0(b.translatorClass, rt.sel("sharedClientProxy"))
	if t == 0 {
		return 0, fmt.Errorf("native: get-translator: sharedClientProxy returned nil")
	}
	b.translator = ObjHandle(t)
	return b.translator, nil
}

// SendAccessibilityRequest issues the device's async accessibility XPC verb
// and blocks the calling goroutine until either the response arrives or the
// timeout elapses. The async-to-sync bridging and the race against the
// timeout are both delegated to internal/deadline rather than hand-rolled
// here (§4.7).
func (b *Bridge) SendAccessibilityRequest(request, handle ObjHandle, timeout time.Duration) (ObjHandle, error) {
	if err := b.EnsureLoaded(); err != nil {
		return 0, err
	}
	rt := b.rt

	resp, err := deadline.WithTimeout("accessibility-request", timeout, func() (ObjHandle, error) {
		done := make(chan uintptr, 1)
		cb := purego.NewCallback(func(response uintptr) {
			select {
			case done <- response:
			default:
			}
		})
		rt.sendVoid2(uintptr(handle), rt.sel("sendAccessibilityRequest:completionHandler:"), uintptr(request), cb)
		return ObjHandle(<-done), nil
	})
	if err != nil {
		return 0, err
	}
	return resp, nil
}

// InstallApp installs the .app bundle at url on the given device, bounded
// by timeout via internal/deadline since installApplication:withOptions:
// has no cancellation path of its own.
func (b *Bridge) InstallApp(h ObjHandle, url string, timeout time.Duration) error {
	if err := b.EnsureLoaded(); err != nil {
		return err
	}
	rt := b.rt
	_, err := deadline.WithTimeout("install-app", timeout, func() (struct{}, error) {
		nsURL := b.nsURL(url)
		ok := rt.sendBool2(uintptr(h), rt.sel("installApplication:withOptions:"), nsURL, 0)
		if !ok {
			return struct{}{}, fmt.Errorf("native: install-app: installApplication failed")
		}
		return struct{}{}, nil
	})
	return err
}

// LaunchApp launches bundleID on the given device, returning its pid,
// bounded by timeout via internal/deadline.
func (b *Bridge) LaunchApp(h ObjHandle, bundleID string, terminateExisting bool, timeout time.Duration) (int, error) {
	if err := b.EnsureLoaded(); err != nil {
		return 0, err
	}
	rt := b.rt
	return deadline.WithTimeout("launch-app", timeout, func() (int, error) {
		nsBundleID := b.nsString(bundleID)
		pid := rt.send2(uintptr(h), rt.sel("launchApplicationWithID:options:"), uintptr(nsBundleID), boolArg(terminateExisting))
		if pid == 0 {
			return 0, fmt.Errorf("native: launch-app: launch failed for %s", bundleID)
		}
		return int(pid), nil
	})
}

func boolArg(v bool) uintptr {
	if v {
		return 1
	}
	return 0
}

// BuildMouseEvent calls the host's HIDMessageForMouseEvent entry point to
// construct a touch event record populated with several opaque
// direction-indicator fields (§4.1's primary touch-construction path). ok
// is false if the symbol failed to resolve during EnsureLoaded, in which
// case the caller falls back to the manual construction path.
func (b *Bridge) BuildMouseEvent(xr, yr float64, direction uint32) (event []byte, ok bool) {
	if err := b.EnsureLoaded(); err != nil || b.hidMessageForMouseEvent == 0 {
		return nil, false
	}
	var builder func(point uintptr, opaque uintptr, source int32, direction int32, keyUp uintptr) uintptr
	purego.RegisterFunc(&builder, b.hidMessageForMouseEvent)

	point := [2]float64{xr, yr}
	ptr := builder(uintptr(unsafe.Pointer(&point[0])), 0, mouseEventSourceCode, int32(direction), 0)
	if ptr == 0 {
		return nil, false
	}

	out := make([]byte, touchEventSize)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), touchEventSize))
	return out, true
}

// mouseEventSourceCode is the constant source code HIDMessageForMouseEvent
// expects for a simulated touch (§4.1).
const mouseEventSourceCode = 0x32

// touchEventSize mirrors wire.SizeTouchEvent without importing internal/wire
// here, since this package sits below the wire layer in the dependency
// graph (native is the symbol resolver; wire is the byte-layout consumer).
const touchEventSize = 112
