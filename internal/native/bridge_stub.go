//go:build !darwin

package native

import (
	"errors"
	"time"
)

// errUnsupported is returned by every Bridge operation on non-darwin
// platforms: the host libraries this package binds to only exist under
// Xcode's iOS Simulator platform support.
var errUnsupported = errors.New("native: the simulator control plane is darwin-only")

type ObjHandle uintptr

func (h ObjHandle) Valid() bool { return h != 0 }

type Bridge struct{ devRoot string }

func NewBridge(developerDir string) *Bridge { return &Bridge{devRoot: developerDir} }

func (b *Bridge) EnsureLoaded() error { return errUnsupported }

func (b *Bridge) LookupDevice(udid string) (ObjHandle, error) { return 0, errUnsupported }

func (b *Bridge) ScreenSize(h ObjHandle) (int, int) { return 828, 1792 }

func (b *Bridge) ScreenScale(h ObjHandle) float64 { return 2.0 }

func (b *Bridge) CreateHIDClient(h ObjHandle) (ObjHandle, error) { return 0, errUnsupported }

func (b *Bridge) SendHIDMessage(msg []byte, client ObjHandle) error { return errUnsupported }

func (b *Bridge) GetTranslator() (ObjHandle, error) { return 0, errUnsupported }

func (b *Bridge) SendAccessibilityRequest(request, handle ObjHandle, timeout time.Duration) (ObjHandle, error) {
	return 0, errUnsupported
}

func (b *Bridge) InstallApp(h ObjHandle, url string, timeout time.Duration) error { return errUnsupported }

func (b *Bridge) LaunchApp(h ObjHandle, bundleID string, terminateExisting bool, timeout time.Duration) (int, error) {
	return 0, errUnsupported
}

func (b *Bridge) BuildMouseEvent(xr, yr float64, direction uint32) ([]byte, bool) { return nil, false }

func (b *Bridge) NSString(s string) ObjHandle { return 0 }

func (b *Bridge) GetString(h ObjHandle, selectorName string) (string, bool) { return "", false }

func (b *Bridge) GetObject(h ObjHandle, selectorName string) (ObjHandle, bool) { return 0, false }

func (b *Bridge) SetObject(h ObjHandle, selectorName string, value ObjHandle) {}

func (b *Bridge) SetValueForKey(h ObjHandle, value ObjHandle, key string) {}

func (b *Bridge) AttributeValue(h ObjHandle, attribute string) (uint64, bool) { return 0, false }

func (b *Bridge) ArrayCount(h ObjHandle) int { return 0 }

func (b *Bridge) ArrayAt(h ObjHandle, index int) ObjHandle { return 0 }

func (b *Bridge) EmptyResponse() ObjHandle { return 0 }

func (b *Bridge) FrontmostApplication(translator ObjHandle, displayID int, token ObjHandle) (ObjHandle, error) {
	return 0, errUnsupported
}

func (b *Bridge) ObjectAtPoint(translator ObjHandle, x, y float64, displayID int, token ObjHandle) (ObjHandle, error) {
	return 0, errUnsupported
}

func (b *Bridge) MacPlatformElementFromTranslation(translator, translation ObjHandle) (ObjHandle, error) {
	return 0, errUnsupported
}

func (b *Bridge) Frame(h ObjHandle, selectorName string) (x, y, w, height float64, ok bool) {
	return 0, 0, 0, 0, false
}

func IsNoTranslationObject(err error) bool  { return errors.Is(err, errUnsupported) }
func IsNoMacPlatformElement(err error) bool { return errors.Is(err, errUnsupported) }
func IsNoElementAtPoint(err error) bool     { return errors.Is(err, errUnsupported) }

// DelegateHandlers mirrors the darwin type so callers can build it
// unconditionally; none of its fields are ever invoked off-darwin.
type DelegateHandlers struct {
	HandleRequest func(request, token ObjHandle) ObjHandle
	ConvertFrame  func(frame ObjHandle) ObjHandle
	RootParent    func() ObjHandle
}

type DelegateProxy struct{}

func (p *DelegateProxy) Handle() ObjHandle { return 0 }
func (p *DelegateProxy) Release()          {}

func (b *Bridge) NewDelegateProxy(h *DelegateHandlers) (*DelegateProxy, error) {
	return nil, errUnsupported
}
