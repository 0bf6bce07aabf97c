//go:build darwin

package native

import (
	"math"
	"unsafe"

	"github.com/ebitengine/purego"
)

func (b *Bridge) nsStringClass() uintptr {
	cls, _ := b.rt.class("NSString")
	return cls
}

func (b *Bridge) nsURLClass() uintptr {
	cls, _ := b.rt.class("NSURL")
	return cls
}

func (b *Bridge) nsDataClass() uintptr {
	cls, _ := b.rt.class("NSData")
	return cls
}

// nsString builds an autoreleased NSString from a Go string.
func (b *Bridge) nsString(s string) uintptr {
	rt := b.rt
	cstr := append([]byte(s), 0)
	obj := rt.send0(b.nsStringClass(), rt.sel("alloc"))
	ptr := uintptr(unsafe.Pointer(&cstr[0]))
	result := rt.send1(obj, rt.sel("initWithUTF8String:"), ptr)
	return result
}

// nsURL builds an autoreleased NSURL for a filesystem path.
func (b *Bridge) nsURL(path string) uintptr {
	rt := b.rt
	nsPath := b.nsString(path)
	return rt.send1(b.nsURLClass(), rt.sel("fileURLWithPath:"), nsPath)
}

// cString reads a NUL-terminated C string starting at ptr.
func cString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	length := 0
	for {
		if *(*byte)(unsafe.Add(unsafe.Pointer(ptr), length)) == 0 {
			break
		}
		length++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length))
}

// readDouble reads a CGFloat/double-valued property by selector name off an
// NSSize/NSValue-shaped object, used for mainScreenSize.width/.height and
// mainScreenScale.
func (b *Bridge) readDouble(h ObjHandle, selectorName string) float64 {
	var fn func(obj, sel uintptr) float64
	purego.RegisterLibFunc(&fn, b.rt.libobjc, "objc_msgSend")
	return fn(uintptr(h), b.rt.sel(selectorName))
}

// NSString builds a native string object from a Go string, for callers
// outside this package that need to pass a string-valued argument (e.g. a
// DelegateToken) into a duck-typed selector.
func (b *Bridge) NSString(s string) ObjHandle {
	return ObjHandle(b.nsString(s))
}

// GetString reads a duck-typed string slot (e.g. accessibilityLabel,
// accessibilityIdentifier) off a translation or platform-element object via
// its matching NSString-returning selector, returning ok=false if the
// selector returns nil.
func (b *Bridge) GetString(h ObjHandle, selectorName string) (string, bool) {
	if !h.Valid() {
		return "", false
	}
	rt := b.rt
	obj := rt.send0(uintptr(h), rt.sel(selectorName))
	if obj == 0 {
		return "", false
	}
	cstrPtr := rt.send0(obj, rt.sel("UTF8String"))
	if cstrPtr == 0 {
		return "", false
	}
	return cString(cstrPtr), true
}

// GetObject reads a duck-typed object slot (e.g. accessibilityChildren,
// translation) by selector name.
func (b *Bridge) GetObject(h ObjHandle, selectorName string) (ObjHandle, bool) {
	if !h.Valid() {
		return 0, false
	}
	obj := b.rt.send0(uintptr(h), b.rt.sel(selectorName))
	if obj == 0 {
		return 0, false
	}
	return ObjHandle(obj), true
}

// SetObject sends a single-object-argument selector (e.g.
// setBridgeDelegateToken:) carrying value.
func (b *Bridge) SetObject(h ObjHandle, selectorName string, value ObjHandle) {
	if !h.Valid() {
		return
	}
	b.rt.sendVoid1(uintptr(h), b.rt.sel(selectorName), uintptr(value))
}

// SetValueForKey performs a KVC-style setValue:forKey: call, used to install
// the delegate dispatcher as the translator's "bridge token delegate".
func (b *Bridge) SetValueForKey(h ObjHandle, value ObjHandle, key string) {
	if !h.Valid() {
		return
	}
	rt := b.rt
	nsKey := b.nsString(key)
	rt.sendVoid2(uintptr(h), rt.sel("setValue:forKey:"), uintptr(value), nsKey)
}

// AttributeValue reads the generic accessibility attribute accessor for a
// named attribute (e.g. "AXTraits"), returning the result reinterpreted as a
// uint64 bitmap via NSNumber's unsignedLongLongValue.
func (b *Bridge) AttributeValue(h ObjHandle, attribute string) (uint64, bool) {
	if !h.Valid() {
		return 0, false
	}
	rt := b.rt
	nsAttr := b.nsString(attribute)
	num := rt.send1(uintptr(h), rt.sel("attributeValue:"), nsAttr)
	if num == 0 {
		return 0, false
	}
	var fn func(obj, sel uintptr) uint64
	purego.RegisterLibFunc(&fn, b.rt.libobjc, "objc_msgSend")
	return fn(num, rt.sel("unsignedLongLongValue")), true
}

// ArrayCount and ArrayAt walk an NSArray-shaped duck-typed children list
// without assuming Go-side knowledge of NSArray's memory layout.
func (b *Bridge) ArrayCount(h ObjHandle) int {
	if !h.Valid() {
		return 0
	}
	return int(b.rt.sendU64(uintptr(h), b.rt.sel("count")))
}

func (b *Bridge) ArrayAt(h ObjHandle, index int) ObjHandle {
	if !h.Valid() {
		return 0
	}
	return ObjHandle(b.rt.send1(uintptr(h), b.rt.sel("objectAtIndex:"), uintptr(index)))
}

// EmptyResponse returns the host's canonical empty accessibility response,
// used by the delegate dispatcher to avoid propagating errors into the host
// framework.
func (b *Bridge) EmptyResponse() ObjHandle {
	if err := b.EnsureLoaded(); err != nil {
		return 0
	}
	return ObjHandle(b.rt.send0(b.responseClass, b.rt.sel("emptyResponse")))
}

// FrontmostApplication invokes the translator's root-lookup entry point.
func (b *Bridge) FrontmostApplication(translator ObjHandle, displayID int, token ObjHandle) (ObjHandle, error) {
	rt := b.rt
	var fn func(obj, sel uintptr, displayID uint32, token uintptr) uintptr
	purego.RegisterLibFunc(&fn, rt.libobjc, "objc_msgSend")
	result := fn(uintptr(translator), rt.sel("frontmostApplicationWithDisplayID:bridgeDelegateToken:"), uint32(displayID), uintptr(token))
	if result == 0 {
		return 0, errNoTranslationObject
	}
	return ObjHandle(result), nil
}

// ObjectAtPoint invokes the translator's point-hit-test entry point.
func (b *Bridge) ObjectAtPoint(translator ObjHandle, x, y float64, displayID int, token ObjHandle) (ObjHandle, error) {
	rt := b.rt
	var fn func(obj, sel uintptr, x, y float64, displayID uint32, token uintptr) uintptr
	purego.RegisterLibFunc(&fn, rt.libobjc, "objc_msgSend")
	result := fn(uintptr(translator), rt.sel("objectAtPoint:displayID:bridgeDelegateToken:"), x, y, uint32(displayID), uintptr(token))
	if result == 0 {
		return 0, errNoElementAtPoint
	}
	return ObjHandle(result), nil
}

// MacPlatformElementFromTranslation converts a translation object to a
// platform element.
func (b *Bridge) MacPlatformElementFromTranslation(translator, translation ObjHandle) (ObjHandle, error) {
	result := b.rt.send1(uintptr(translator), b.rt.sel("macPlatformElementFromTranslation:"), uintptr(translation))
	if result == 0 {
		return 0, errNoMacPlatformElement
	}
	return ObjHandle(result), nil
}

// Frame reads a duck-typed CGRect-valued accessibilityFrame slot.
func (b *Bridge) Frame(h ObjHandle, selectorName string) (x, y, w, height float64, ok bool) {
	if !h.Valid() {
		return 0, 0, 0, 0, false
	}
	rt := b.rt
	type cgRect struct{ x, y, w, h float64 }
	var fn func(obj, sel uintptr) cgRect
	purego.RegisterLibFunc(&fn, rt.libobjc, "objc_msgSend")
	r := fn(uintptr(h), rt.sel(selectorName))
	if math.IsNaN(r.x) || math.IsNaN(r.y) {
		return 0, 0, 0, 0, false
	}
	return r.x, r.y, r.w, r.h, true
}
