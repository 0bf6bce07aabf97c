package ax

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riwsky/iosef/internal/deadline"
	"github.com/riwsky/iosef/internal/native"
	"github.com/riwsky/iosef/internal/simhandle"
)

const defaultTimeout = 10 * time.Second

// innerXPCCap bounds any single XPC hop regardless of how much of the outer
// deadline remains, so one slow call can't silently eat the whole budget.
const innerXPCCap = 10 * time.Second

// gridScanStep is the probe spacing, in iOS points, for the grid-scan
// discovery fallback (§4.4 step 8). Finer steps trade CPU for recall.
const gridScanStep = 10.0

// Bridge turns the host's asynchronous, lazily-resolved accessibility
// machinery into two synchronous, deadline-bounded queries returning the
// uniform TreeNode model with frames renormalized into iOS-point space.
type Bridge struct {
	udid       string
	bridge     *native.Bridge
	device     native.ObjHandle
	translator native.ObjHandle
	proxy      *native.DelegateProxy

	pointW, pointH float64

	mu          sync.Mutex
	ops         map[string]*opState
	rootFrame   *Frame
	rootFrameAt time.Time
}

type opState struct {
	handle *simhandle.SimulatorHandle
	until  time.Time
}

// Open constructs a Bridge for udid: it ensures the native libraries are
// loaded, resolves the translator singleton and the device handle, records
// the nominal iOS-point screen size, and installs a delegate dispatcher on
// the translator as its "bridge token delegate".
//
// The translator is a process-wide singleton; concurrent bridges for
// different devices share it and route via their own DelegateTokens (§9).
func Open(nb *native.Bridge, handle *simhandle.SimulatorHandle) (*Bridge, error) {
	if err := nb.EnsureLoaded(); err != nil {
		return nil, err
	}
	translator, err := nb.GetTranslator()
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		udid:       handle.UDID,
		bridge:     nb,
		device:     handle.Native(),
		translator: translator,
		pointW:     handle.PointWidth(),
		pointH:     handle.PointHeight(),
		ops:        make(map[string]*opState),
	}

	proxy, err := nb.NewDelegateProxy(&native.DelegateHandlers{
		HandleRequest: b.handleDelegateRequest,
		ConvertFrame:  func(frame native.ObjHandle) native.ObjHandle { return frame },
		RootParent:    func() native.ObjHandle { return 0 },
	})
	if err != nil {
		return nil, err
	}
	b.proxy = proxy

	nb.SetValueForKey(translator, proxy.Handle(), "bridgeTokenDelegate")

	return b, nil
}

// Close releases the delegate registration. The translator itself is owned
// by the host process and outlives any individual Bridge.
func (b *Bridge) Close() {
	if b.proxy != nil {
		b.proxy.Release()
	}
}

func (b *Bridge) register(token string, handle *simhandle.SimulatorHandle, until time.Time) {
	b.mu.Lock()
	b.ops[token] = &opState{handle: handle, until: until}
	b.mu.Unlock()
}

func (b *Bridge) unregister(token string) {
	b.mu.Lock()
	delete(b.ops, token)
	b.mu.Unlock()
}

// handleDelegateRequest is the synchronously-callable callback the host
// framework invokes on an arbitrary thread while resolving a lazy field. It
// must never let an error escape back into the host: every failure path
// substitutes the host's empty-response object (§4.4).
func (b *Bridge) handleDelegateRequest(request, token native.ObjHandle) native.ObjHandle {
	tok, ok := b.bridge.GetString(token, "description")
	var (
		handle *simhandle.SimulatorHandle
		until  time.Time
		found  bool
	)
	if ok {
		b.mu.Lock()
		if st, exists := b.ops[tok]; exists {
			handle, until, found = st.handle, st.until, true
		}
		b.mu.Unlock()
	}
	if !found {
		log.Printf("[ax] delegate callback for unregistered token %q", tok)
		return b.bridge.EmptyResponse()
	}

	budget := time.Until(until)
	if budget > innerXPCCap {
		budget = innerXPCCap
	}
	if budget <= 0 {
		log.Printf("[ax] delegate callback for %q arrived past its deadline", tok)
		return b.bridge.EmptyResponse()
	}

	resp, err := b.bridge.SendAccessibilityRequest(request, handle.Native(), budget)
	if err != nil {
		log.Printf("[ax] accessibility request for %q failed: %v", tok, err)
		return b.bridge.EmptyResponse()
	}
	return resp
}

func newToken() string { return uuid.NewString() }

// Tree runs the full-tree query: frontmost application, recursively
// serialized, with frames renormalized into iOS points.
func (b *Bridge) Tree(handle *simhandle.SimulatorHandle, timeout time.Duration) (*TreeNode, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	until := time.Now().Add(timeout)
	token := newToken()
	b.register(token, handle, until)
	defer b.unregister(token)

	tokenObj := b.tokenObject(token)

	translation, err := b.bridge.FrontmostApplication(b.translator, 0, tokenObj)
	if err != nil {
		return nil, &NoTranslationObject{}
	}
	b.bridge.SetObject(translation, "setBridgeDelegateToken:", tokenObj)

	element, err := b.bridge.MacPlatformElementFromTranslation(b.translator, translation)
	if err != nil {
		return nil, &NoMacPlatformElement{}
	}
	b.setElementToken(element, tokenObj)

	root, err := b.serialize(element, tokenObj, until, timeout)
	if err != nil {
		return nil, err
	}

	b.cacheRootFrame(root)

	if len(root.Children) == 0 && root.HasFrame() && (root.Frame.W > 0 || root.Frame.H > 0) {
		b.gridScan(root, handle, tokenObj, until)
	}

	renormalize(root, b.pointW, b.pointH)
	return root, nil
}

// AtPoint runs a point hit-test query at iOS-point coordinates (x, y).
func (b *Bridge) AtPoint(handle *simhandle.SimulatorHandle, x, y float64, timeout time.Duration) (*TreeNode, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	until := time.Now().Add(timeout)
	token := newToken()
	b.register(token, handle, until)
	defer b.unregister(token)

	tokenObj := b.tokenObject(token)

	if err := b.ensureRootFrame(handle, tokenObj, until); err != nil {
		return nil, err
	}

	element, err := b.bridge.ObjectAtPoint(b.translator, x, y, 0, tokenObj)
	if err != nil {
		return nil, &NoElementAtPoint{X: x, Y: y}
	}
	b.setElementToken(element, tokenObj)

	node, err := b.serializeOne(element)
	if err != nil {
		return nil, err
	}

	renormalizeAgainstCachedRoot(node, b.cachedRoot(), b.pointW, b.pointH)
	return node, nil
}

// tokenObject wraps a DelegateToken as a native string object so it can be
// threaded through selectors (bridgeDelegateToken:, setBridgeDelegateToken:)
// that take an object argument.
func (b *Bridge) tokenObject(token string) native.ObjHandle {
	return b.bridge.NSString(token)
}

// setElementToken writes the operation token onto an element's embedded
// translation reference, and onto every child before the walk descends
// into it (§4.4 invariant: every touched translation carries the current
// token before the framework resolves any lazy field on it).
func (b *Bridge) setElementToken(element, tokenObj native.ObjHandle) {
	b.bridge.SetObject(element, "setBridgeDelegateToken:", tokenObj)
	if translation, ok := b.bridge.GetObject(element, "translation"); ok {
		b.bridge.SetObject(translation, "setBridgeDelegateToken:", tokenObj)
	}
}

// serialize recursively converts a platform element into a TreeNode,
// checking the deadline before each descent into a child.
func (b *Bridge) serialize(element, tokenObj native.ObjHandle, until time.Time, bound time.Duration) (*TreeNode, error) {
	node, err := b.serializeOne(element)
	if err != nil {
		return nil, err
	}

	childrenObj, ok := b.bridge.GetObject(element, "accessibilityChildren")
	if !ok {
		return node, nil
	}
	count := b.bridge.ArrayCount(childrenObj)
	for i := 0; i < count; i++ {
		if time.Now().After(until) {
			return node, &deadline.Timeout{Label: "describe", Seconds: bound.Seconds()}
		}
		child := b.bridge.ArrayAt(childrenObj, i)
		b.setElementToken(child, tokenObj)
		childNode, err := b.serialize(child, tokenObj, until, bound)
		if err != nil {
			return node, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// serializeOne reads the scalar fields of a single element without
// recursing into its children: role, label (falling back to AXDescription),
// title, value, identifier, hint, decoded traits, and frame.
func (b *Bridge) serializeOne(element native.ObjHandle) (*TreeNode, error) {
	node := &TreeNode{}
	node.Role, _ = b.bridge.GetString(element, "accessibilityRole")
	node.Label, _ = b.bridge.GetString(element, "accessibilityLabel")
	if node.Label == "" {
		node.Label, _ = b.bridge.GetString(element, "AXDescription")
	}
	node.Title, _ = b.bridge.GetString(element, "accessibilityTitle")
	node.Value, _ = b.bridge.GetString(element, "accessibilityValue")
	node.Identifier, _ = b.bridge.GetString(element, "accessibilityIdentifier")
	node.Hint, _ = b.bridge.GetString(element, "accessibilityHelp")

	if bitmap, ok := b.bridge.AttributeValue(element, "AXTraits"); ok {
		node.Traits = decodeTraits(bitmap)
	}

	if x, y, w, h, ok := b.bridge.Frame(element, "accessibilityFrame"); ok {
		node.Frame = &Frame{X: x, Y: y, W: w, H: h}
	}

	return node, nil
}

func (b *Bridge) cacheRootFrame(root *TreeNode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if root.Frame != nil {
		f := *root.Frame
		b.rootFrame = &f
		b.rootFrameAt = time.Now()
	}
}

func (b *Bridge) cachedRoot() *Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rootFrame
}

// InvalidateRootFrame drops the cached root frame. The user can resize or
// move the host window between operations, changing the window-space root
// frame out from under a stale cache.
func (b *Bridge) InvalidateRootFrame() {
	b.mu.Lock()
	b.rootFrame = nil
	b.mu.Unlock()
}

// ensureRootFrame reads the root's frame once per operation sequence if not
// already cached, so point queries can renormalize without a second full
// tree walk.
func (b *Bridge) ensureRootFrame(handle *simhandle.SimulatorHandle, tokenObj native.ObjHandle, until time.Time) error {
	if b.cachedRoot() != nil {
		return nil
	}
	translation, err := b.bridge.FrontmostApplication(b.translator, 0, tokenObj)
	if err != nil {
		return &NoTranslationObject{}
	}
	b.bridge.SetObject(translation, "setBridgeDelegateToken:", tokenObj)

	element, err := b.bridge.MacPlatformElementFromTranslation(b.translator, translation)
	if err != nil {
		return &NoMacPlatformElement{}
	}
	b.setElementToken(element, tokenObj)

	if x, y, w, h, ok := b.bridge.Frame(element, "accessibilityFrame"); ok {
		b.mu.Lock()
		b.rootFrame = &Frame{X: x, Y: y, W: w, H: h}
		b.rootFrameAt = time.Now()
		b.mu.Unlock()
	}
	return nil
}

func renormalizeAgainstCachedRoot(node *TreeNode, root *Frame, pointW, pointH float64) {
	if node == nil || node.Frame == nil || root == nil || root.W <= 0 {
		return
	}
	scale := pointW / root.W
	yOffset := (pointH - root.H*scale) / 2
	node.Frame = &Frame{
		X: round2((node.Frame.X - root.X) * scale),
		Y: round2((node.Frame.Y-root.Y)*scale + yOffset),
		W: round2(node.Frame.W * scale),
		H: round2(node.Frame.H * scale),
	}
}

// gridScan is the watchOS-ish fallback (§4.4 step 8) invoked when the root
// reports zero children but a non-zero frame: it walks probe points at
// gridScanStep spacing across the root rectangle, point-translating each
// one, and records distinct hits keyed by their frame rectangle.
func (b *Bridge) gridScan(root *TreeNode, handle *simhandle.SimulatorHandle, tokenObj native.ObjHandle, until time.Time) {
	seen := make(map[string]bool)
	rootRole := root.Role

	for py := root.Frame.Y; py < root.Frame.Y+root.Frame.H; py += gridScanStep {
		for px := root.Frame.X; px < root.Frame.X+root.Frame.W; px += gridScanStep {
			if time.Now().After(until) {
				return
			}
			if insideAny(root.Children, px, py) {
				continue
			}
			element, err := b.bridge.ObjectAtPoint(b.translator, px, py, 0, tokenObj)
			if err != nil {
				continue
			}
			b.setElementToken(element, tokenObj)
			node, err := b.serializeOne(element)
			if err != nil || node.Role == rootRole {
				continue
			}
			key := frameKey(node.Frame)
			if seen[key] {
				continue
			}
			seen[key] = true
			root.Children = append(root.Children, node)
		}
	}
}

func insideAny(nodes []*TreeNode, x, y float64) bool {
	for _, n := range nodes {
		if n.Frame == nil {
			continue
		}
		f := n.Frame
		if x >= f.X && x <= f.X+f.W && y >= f.Y && y <= f.Y+f.H {
			return true
		}
	}
	return false
}

func frameKey(f *Frame) string {
	if f == nil {
		return "nil"
	}
	return fmt.Sprintf("%.1f,%.1f,%.1f,%.1f", f.X, f.Y, f.W, f.H)
}
