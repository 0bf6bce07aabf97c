// Package simhandle wraps a single simulator device's native handle: its
// screen geometry and the two verbs every higher-level client dispatches
// through (HID message send, accessibility request/response).
package simhandle

import (
	"time"

	"github.com/riwsky/iosef/internal/native"
)

// SimulatorHandle is an opaque owning reference to one simulator device for
// the process lifetime. The resource cache holds the only one per udid.
type SimulatorHandle struct {
	UDID   string
	bridge *native.Bridge
	native native.ObjHandle

	PixelWidth  int
	PixelHeight int
	Scale       float64
}

// Open resolves a SimulatorHandle for udid via the native bridge, reading
// its pixel screen size and scale once.
func Open(bridge *native.Bridge, udid string) (*SimulatorHandle, error) {
	h, err := bridge.LookupDevice(udid)
	if err != nil {
		return nil, err
	}
	w, ht := bridge.ScreenSize(h)
	scale := bridge.ScreenScale(h)
	return &SimulatorHandle{
		UDID:        udid,
		bridge:      bridge,
		native:      h,
		PixelWidth:  w,
		PixelHeight: ht,
		Scale:       scale,
	}, nil
}

// PointWidth and PointHeight are the nominal iOS-point screen dimensions,
// W_px/s and H_px/s.
func (h *SimulatorHandle) PointWidth() float64  { return float64(h.PixelWidth) / h.Scale }
func (h *SimulatorHandle) PointHeight() float64 { return float64(h.PixelHeight) / h.Scale }

// SendHIDMessage dispatches a binary wire message to this device's HID
// channel via the native bridge's client. client must have been created by
// CreateHIDClient.
func (h *SimulatorHandle) SendHIDMessage(msg []byte, client native.ObjHandle) error {
	return h.bridge.SendHIDMessage(msg, client)
}

// CreateHIDClient constructs a fresh HID client bound to this device.
func (h *SimulatorHandle) CreateHIDClient() (native.ObjHandle, error) {
	return h.bridge.CreateHIDClient(h.native)
}

// SendAccessibilityRequest issues an async accessibility XPC verb against
// this device and blocks until response or timeout.
func (h *SimulatorHandle) SendAccessibilityRequest(request native.ObjHandle, timeout time.Duration) (native.ObjHandle, error) {
	return h.bridge.SendAccessibilityRequest(request, h.native, timeout)
}

// Native exposes the underlying device object for components (the
// accessibility bridge) that must pass it straight to other native entry
// points.
func (h *SimulatorHandle) Native() native.ObjHandle { return h.native }

// InstallApp and LaunchApp are thin synchronous wrappers over the
// corresponding native bridge verbs, each bounded by the deadline utility
// (internal/deadline) rather than blocking indefinitely on the host call.
func (h *SimulatorHandle) InstallApp(url string, timeout time.Duration) error {
	return h.bridge.InstallApp(h.native, url, timeout)
}

func (h *SimulatorHandle) LaunchApp(bundleID string, terminateExisting bool, timeout time.Duration) (int, error) {
	return h.bridge.LaunchApp(h.native, bundleID, terminateExisting, timeout)
}

// BuildMouseEvent calls the host's mouse-event-builder entry point to
// construct a touch event record (§4.1's primary touch-construction path),
// returning ok=false if the builder is unavailable so the caller can fall
// back to the manual construction path.
func (h *SimulatorHandle) BuildMouseEvent(xr, yr float64, direction uint32) ([]byte, bool) {
	return h.bridge.BuildMouseEvent(xr, yr, direction)
}
