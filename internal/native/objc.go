//go:build darwin

package native

import (
	"github.com/ebitengine/purego"
)

// objcRuntime wraps the handful of libobjc entry points needed to look up
// classes and selectors and to send messages with the handful of argument
// shapes the three host libraries require. objc_msgSend is not a single Go
// function: each distinct argument/return shape needs its own typed
// trampoline registered via purego.RegisterFunc, so this only exposes the
// shapes this bridge actually calls.
type objcRuntime struct {
	libobjc uintptr

	getClass    func(name string) uintptr
	registerSel func(name string) uintptr

	// msgSend variants, named by (args)->return shape.
	send0 func(obj, sel uintptr) uintptr
	send1 func(obj, sel, a1 uintptr) uintptr
	send2 func(obj, sel, a1, a2 uintptr) uintptr
	send3 func(obj, sel, a1, a2, a3 uintptr) uintptr

	sendStr  func(obj, sel uintptr) string
	sendU64  func(obj, sel uintptr) uint64
	sendBool func(obj, sel uintptr) bool
	sendBool2 func(obj, sel, a1, a2 uintptr) bool

	sendVoid1 func(obj, sel, a1 uintptr)
	sendVoid2 func(obj, sel, a1, a2 uintptr)
}

func loadObjcRuntime() (*objcRuntime, error) {
	handle, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &FrameworkLoad{Path: "/usr/lib/libobjc.A.dylib", Err: err}
	}

	rt := &objcRuntime{libobjc: handle}
	purego.RegisterLibFunc(&rt.getClass, handle, "objc_getClass")
	purego.RegisterLibFunc(&rt.registerSel, handle, "sel_registerName")
	purego.RegisterLibFunc(&rt.send0, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.send1, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.send2, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.send3, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendStr, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendU64, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendBool, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendBool2, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendVoid1, handle, "objc_msgSend")
	purego.RegisterLibFunc(&rt.sendVoid2, handle, "objc_msgSend")

	return rt, nil
}

// class resolves an Objective-C class by name, returning ClassMissing if the
// runtime has no class registered under it.
func (rt *objcRuntime) class(name string) (uintptr, error) {
	cls := rt.getClass(name)
	if cls == 0 {
		return 0, &ClassMissing{Name: name}
	}
	return cls, nil
}

// sel registers (or looks up) a selector by its Objective-C name, e.g.
// "frontmostApplicationWithDisplayID:bridgeDelegateToken:".
func (rt *objcRuntime) sel(name string) uintptr {
	return rt.registerSel(name)
}
