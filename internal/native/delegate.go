//go:build darwin

package native

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// DelegateHandlers is the set of callbacks a DelegateProxy dispatches into,
// mirroring the three methods the host's translation framework invokes on
// its "bridge token delegate": handling an in-flight accessibility request
// for a token, converting a platform frame to system space, and resolving
// a root's parent. The framework calls these synchronously from whatever
// thread is resolving a lazy field, so handlers must be safe for concurrent
// invocation.
type DelegateHandlers struct {
	// HandleRequest services one accessibility request carrying a
	// delegate token, returning the response object (or an empty response
	// on any failure — the caller must never let an error escape back
	// into the host framework).
	HandleRequest func(request, token ObjHandle) ObjHandle
	// ConvertFrame converts a platform frame to system coordinate space.
	// The identity transform is correct here; the real renormalization
	// happens in the ax package once a full tree has been read back.
	ConvertFrame func(frame ObjHandle) ObjHandle
	// RootParent resolves the parent of a root element. Upward traversal
	// is not supported, so this always returns nil.
	RootParent func() ObjHandle
}

// DelegateProxy is a synthesized Objective-C object conforming to the
// host's "translation token delegate helper" calling convention.
type DelegateProxy struct {
	obj ObjHandle
}

func (p *DelegateProxy) Handle() ObjHandle { return p.obj }

var (
	delegateMu       sync.Mutex
	delegateClass    uintptr
	delegateHandlers = map[uintptr]*DelegateHandlers{}
)

const (
	delegateClassName = "IosefBridgeTokenDelegate"

	selHandleRequestToken = "handleAccessibilityRequest:bridgeDelegateToken:"
	selConvertFrame       = "convertPlatformFrameToSystem:"
	selRootParent         = "rootParentForElement:"
)

// NewDelegateProxy allocates a fresh instance of the process-wide delegate
// class (registered lazily on first call) and binds it to h. The returned
// proxy is ready to install as a translator's "bridge token delegate" via
// SetValueForKey.
func (b *Bridge) NewDelegateProxy(h *DelegateHandlers) (*DelegateProxy, error) {
	if err := b.EnsureLoaded(); err != nil {
		return nil, err
	}
	rt := b.rt

	delegateMu.Lock()
	if delegateClass == 0 {
		cls, err := allocateDelegateClass(rt)
		if err != nil {
			delegateMu.Unlock()
			return nil, err
		}
		delegateClass = cls
	}
	delegateMu.Unlock()

	obj := rt.send0(rt.send0(delegateClass, rt.sel("alloc")), rt.sel("init"))
	if obj == 0 {
		return nil, fmt.Errorf("native: delegate proxy alloc/init failed")
	}

	delegateMu.Lock()
	delegateHandlers[obj] = h
	delegateMu.Unlock()

	return &DelegateProxy{obj: ObjHandle(obj)}, nil
}

// Release drops the handler registration for a proxy once its owning
// accessibility bridge is torn down. The Objective-C object itself is
// native-reference-counted and released normally by the runtime.
func (p *DelegateProxy) Release() {
	delegateMu.Lock()
	delete(delegateHandlers, uintptr(p.obj))
	delegateMu.Unlock()
}

// allocateDelegateClass synthesizes a subclass of NSObject whose three
// methods forward into the Go-side DelegateHandlers registered for the
// receiving instance. This is the zero-auxiliary-daemon way to hand the
// host framework something it can call back into synchronously: a real
// Objective-C object backed entirely by Go closures via purego callbacks,
// no Objective-C source or cgo build step required.
func allocateDelegateClass(rt *objcRuntime) (uintptr, error) {
	var allocateClassPair func(super uintptr, name string, extraBytes uintptr) uintptr
	var registerClassPair func(cls uintptr)
	var addMethod func(cls, sel uintptr, imp uintptr, types string) bool
	purego.RegisterLibFunc(&allocateClassPair, rt.libobjc, "objc_allocateClassPair")
	purego.RegisterLibFunc(&registerClassPair, rt.libobjc, "objc_registerClassPair")
	purego.RegisterLibFunc(&addMethod, rt.libobjc, "class_addMethod")

	nsObject, err := rt.class("NSObject")
	if err != nil {
		return 0, err
	}

	cls := allocateClassPair(nsObject, delegateClassName, 0)
	if cls == 0 {
		return 0, fmt.Errorf("native: objc_allocateClassPair(%s) failed", delegateClassName)
	}

	handleRequestIMP := purego.NewCallback(func(self, _cmd, request, token uintptr) uintptr {
		delegateMu.Lock()
		h := delegateHandlers[self]
		delegateMu.Unlock()
		if h == nil || h.HandleRequest == nil {
			return 0
		}
		return uintptr(h.HandleRequest(ObjHandle(request), ObjHandle(token)))
	})
	convertFrameIMP := purego.NewCallback(func(self, _cmd, frame uintptr) uintptr {
		delegateMu.Lock()
		h := delegateHandlers[self]
		delegateMu.Unlock()
		if h == nil || h.ConvertFrame == nil {
			return frame
		}
		return uintptr(h.ConvertFrame(ObjHandle(frame)))
	})
	rootParentIMP := purego.NewCallback(func(self, _cmd, element uintptr) uintptr {
		delegateMu.Lock()
		h := delegateHandlers[self]
		delegateMu.Unlock()
		if h == nil || h.RootParent == nil {
			return 0
		}
		return uintptr(h.RootParent())
	})

	addMethod(cls, rt.sel(selHandleRequestToken), handleRequestIMP, "@@:@@")
	addMethod(cls, rt.sel(selConvertFrame), convertFrameIMP, "@@:@")
	addMethod(cls, rt.sel(selRootParent), rootParentIMP, "@@:@")

	registerClassPair(cls)
	return cls, nil
}
