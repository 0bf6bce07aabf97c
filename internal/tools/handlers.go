package tools

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/riwsky/iosef/internal/ax"
	"github.com/riwsky/iosef/internal/clip"
	"github.com/riwsky/iosef/internal/hid"
	"github.com/riwsky/iosef/internal/wire"
)

// typeText sends text via the HID keyboard path, the default strategy
// (§4.3). If text contains any character the printable-ASCII keycode table
// can't express, it falls back to the pasteboard strategy (§9 Open
// Question 4) instead of silently dropping those characters.
func typeText(client *hid.Client, text string) error {
	for _, r := range text {
		if _, _, ok := wire.ASCIIKeycode(r); !ok {
			return clip.Paste(client, text)
		}
	}
	return client.TypeASCII(text)
}

func handleGetBootedSimID(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	udid, name, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("%s (%s)", name, udid))
}

func handleDescribe(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	hasX, hasY := hasKey(args, "x"), hasKey(args, "y")
	if hasX != hasY {
		return errorResult(&ConflictingFilters{Detail: "x and y must both be present or both absent"})
	}
	if hasX && hasKey(args, "depth") {
		return errorResult(&ConflictingFilters{Detail: "depth is forbidden with x/y (point mode)"})
	}

	abh, err := d.resolveAX(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	timeout := d.timeout(args)

	var root *ax.TreeNode
	if hasX {
		x, y := getFloat(args, "x", 0), getFloat(args, "y", 0)
		root, err = abh.bridge.AtPoint(abh.handle, x, y, timeout)
	} else {
		root, err = abh.bridge.Tree(abh.handle, timeout)
	}
	if err != nil {
		return errorResult(err)
	}

	if depth := getFloatPtr(args, "depth"); depth != nil {
		d := int(*depth)
		root = pruneToDepth(root, d)
	}

	return textResult(ax.Markdown(root))
}

func pruneToDepth(n *ax.TreeNode, maxDepth int) *ax.TreeNode {
	if n == nil || maxDepth < 0 {
		return n
	}
	clone := *n
	if maxDepth == 0 {
		clone.Children = nil
		return &clone
	}
	clone.Children = make([]*ax.TreeNode, len(n.Children))
	for i, c := range n.Children {
		clone.Children[i] = pruneToDepth(c, maxDepth-1)
	}
	return &clone
}

func handleTap(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, hasSel := trySelector(args)
	hasX, hasY := hasKey(args, "x"), hasKey(args, "y")
	hasCoord := hasX && hasY
	if hasX != hasY {
		return errorResult(&ConflictingFilters{Detail: "x and y must both be present or both absent"})
	}
	if hasSel == hasCoord {
		return errorResult(&ConflictingFilters{Detail: "exactly one of selector or (x, y) is required"})
	}

	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	client, err := d.Cache.GetHIDClient(udid)
	if err != nil {
		return errorResult(err)
	}

	x, y := getFloat(args, "x", 0), getFloat(args, "y", 0)
	if hasSel {
		x, y, err = d.selectorCenter(ctx, args, sel)
		if err != nil {
			return errorResult(err)
		}
	}

	if dur := getFloatPtr(args, "duration"); dur != nil {
		err = client.LongPress(x, y, time.Duration(*dur*float64(time.Second)))
	} else {
		err = client.Tap(x, y)
	}
	if err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("tapped (%.1f, %.1f)", x, y))
}

// trySelector builds a Selector from args without raising an error when
// every field is absent, so callers can distinguish "no selector given"
// from "empty selector given".
func trySelector(args map[string]interface{}) (ax.Selector, bool) {
	sel, err := buildSelector(args)
	if err != nil {
		return ax.Selector{}, false
	}
	return sel, true
}

func (d *Dispatcher) selectorCenter(ctx context.Context, args map[string]interface{}, sel ax.Selector) (x, y float64, err error) {
	abh, err := d.resolveAX(ctx, args)
	if err != nil {
		return 0, 0, err
	}
	root, err := abh.bridge.Tree(abh.handle, d.timeout(args))
	if err != nil {
		return 0, 0, err
	}
	matches := ax.Find(sel, []*ax.TreeNode{root}, nil)
	if len(matches) == 0 {
		return 0, 0, &NoMatch{Role: sel.Role, Name: sel.Name, Identifier: sel.Identifier}
	}
	n := matches[0]
	if !n.HasFrame() {
		return 0, 0, &NoFrame{Role: sel.Role, Name: sel.Name, Identifier: sel.Identifier}
	}
	cx, cy := n.Frame.Center()
	return float64(cx), float64(cy), nil
}

func handleType(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	text := getString(args, "text", "")
	if text == "" {
		return errorResult(&MissingRequiredArgument{Name: "text"})
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	client, err := d.Cache.GetHIDClient(udid)
	if err != nil {
		return errorResult(err)
	}
	if err := typeText(client, text); err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("typed %d characters", len(text)))
}

func handleSwipe(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	for _, key := range []string{"x_start", "y_start", "x_end", "y_end"} {
		if !hasKey(args, key) {
			return errorResult(&MissingRequiredArgument{Name: key})
		}
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	client, err := d.Cache.GetHIDClient(udid)
	if err != nil {
		return errorResult(err)
	}

	delta := getFloat(args, "delta", 1)
	if delta <= 0 {
		delta = 1
	}
	steps := int(20 / delta)
	if steps < 1 {
		steps = 1
	}
	var totalDuration time.Duration
	if dur := getFloatPtr(args, "duration"); dur != nil {
		totalDuration = time.Duration(*dur * float64(time.Second))
	}

	x0, y0 := getFloat(args, "x_start", 0), getFloat(args, "y_start", 0)
	x1, y1 := getFloat(args, "x_end", 0), getFloat(args, "y_end", 0)
	if err := client.Swipe(x0, y0, x1, y1, steps, totalDuration); err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("swiped (%.1f, %.1f) -> (%.1f, %.1f)", x0, y0, x1, y1))
}

func handleView(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}

	if outputPath := getString(args, "output_path", ""); outputPath != "" {
		if err := d.Simctl.Screenshot(ctx, udid, outputPath); err != nil {
			return errorResult(err)
		}
		return textResult(fmt.Sprintf("screenshot saved to %s", outputPath))
	}

	handle, err := d.Cache.GetHandle(udid)
	if err != nil {
		return errorResult(err)
	}

	tmp, err := os.CreateTemp("", "iosef-screenshot-*.png")
	if err != nil {
		return errorResult(fmt.Errorf("tools: view: %w", err))
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := d.Simctl.Screenshot(ctx, udid, tmpPath); err != nil {
		return errorResult(err)
	}

	data, err := downscaleToPoints(tmpPath, handle.Scale)
	if err != nil {
		return errorResult(err)
	}

	return ToolResult{Content: []ContentItem{ImageContent(base64JPEG(data), "image/jpeg", nil)}}
}

func handleInstallApp(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	path := getString(args, "path", "")
	if path == "" {
		return errorResult(&MissingRequiredArgument{Name: "path"})
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	handle, err := d.Cache.GetHandle(udid)
	if err != nil {
		return errorResult(err)
	}
	if err := handle.InstallApp(path, d.timeout(args)); err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("installed %s", path))
}

func handleLaunchApp(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	bundleID := getString(args, "bundle_id", "")
	if bundleID == "" {
		return errorResult(&MissingRequiredArgument{Name: "bundle_id"})
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	handle, err := d.Cache.GetHandle(udid)
	if err != nil {
		return errorResult(err)
	}
	terminateExisting := getBool(args, "terminate_existing", true)
	pid, err := handle.LaunchApp(bundleID, terminateExisting, d.timeout(args))
	if err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("launched %s (pid %d)", bundleID, pid))
}

func (d *Dispatcher) queryTree(ctx context.Context, args map[string]interface{}) (*ax.TreeNode, error) {
	abh, err := d.resolveAX(ctx, args)
	if err != nil {
		return nil, err
	}
	return abh.bridge.Tree(abh.handle, d.timeout(args))
}

func handleFind(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	root, err := d.queryTree(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	depth := maxDepthArg(args)
	matches := ax.Find(sel, []*ax.TreeNode{root}, depth)
	var names []string
	for _, n := range matches {
		name := n.Label
		if name == "" {
			name = n.Title
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return textResult("")
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "\n" + n
	}
	return textResult(out)
}

func maxDepthArg(args map[string]interface{}) *int {
	if d := getFloatPtr(args, "depth"); d != nil {
		v := int(*d)
		return &v
	}
	return nil
}

func handleExists(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	root, err := d.queryTree(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	matches := ax.Find(sel, []*ax.TreeNode{root}, maxDepthArg(args))
	if len(matches) > 0 {
		return textResult("true")
	}
	return ToolResult{Content: []ContentItem{TextContent("false")}, IsError: true}
}

func handleCount(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	root, err := d.queryTree(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	matches := ax.Find(sel, []*ax.TreeNode{root}, maxDepthArg(args))
	return textResult(fmt.Sprintf("%d", len(matches)))
}

func handleText(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	root, err := d.queryTree(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	matches := ax.Find(sel, []*ax.TreeNode{root}, maxDepthArg(args))
	if len(matches) == 0 {
		return errorResult(&NoMatch{Role: sel.Role, Name: sel.Name, Identifier: sel.Identifier})
	}
	n := matches[0]
	text := n.Value
	if text == "" {
		text = n.Label
	}
	if text == "" {
		text = n.Title
	}
	return textResult(text)
}

func handleTapElement(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	x, y, err := d.selectorCenter(ctx, args, sel)
	if err != nil {
		return errorResult(err)
	}
	client, err := d.Cache.GetHIDClient(udid)
	if err != nil {
		return errorResult(err)
	}
	if err := client.Tap(x, y); err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("tapped element at (%.1f, %.1f)", x, y))
}

func handleInput(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	text := getString(args, "text", "")
	if text == "" {
		return errorResult(&MissingRequiredArgument{Name: "text"})
	}
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	x, y, err := d.selectorCenter(ctx, args, sel)
	if err != nil {
		return errorResult(err)
	}
	client, err := d.Cache.GetHIDClient(udid)
	if err != nil {
		return errorResult(err)
	}
	if err := client.Tap(x, y); err != nil {
		return errorResult(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := typeText(client, text); err != nil {
		return errorResult(err)
	}
	return textResult(fmt.Sprintf("typed %d characters into matched element", len(text)))
}

const (
	waitPollInterval  = 250 * time.Millisecond
	waitInnerDeadline = 5 * time.Second
	waitDefaultOuter  = 10 * time.Second
)

func handleWait(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	sel, err := buildSelector(args)
	if err != nil {
		return errorResult(err)
	}

	outer := waitDefaultOuter
	if secs := getFloatPtr(args, "timeout"); secs != nil {
		outer = time.Duration(*secs * float64(time.Second))
	}
	deadline := time.Now().Add(outer)

	for {
		root, err := d.queryTree(ctx, withTimeout(args, waitInnerDeadline))
		if err == nil {
			matches := ax.Find(sel, []*ax.TreeNode{root}, nil)
			if len(matches) > 0 {
				return textResult(describeNode(matches[0]))
			}
		}
		if time.Now().After(deadline) {
			return errorResult(&NoMatch{Role: sel.Role, Name: sel.Name, Identifier: sel.Identifier})
		}
		time.Sleep(waitPollInterval)
	}
}

func describeNode(n *ax.TreeNode) string {
	if n.Label != "" {
		return n.Label
	}
	if n.Title != "" {
		return n.Title
	}
	return n.Role
}

func withTimeout(args map[string]interface{}, d time.Duration) map[string]interface{} {
	clone := make(map[string]interface{}, len(args)+1)
	for k, v := range args {
		clone[k] = v
	}
	clone["timeout"] = d.Seconds()
	return clone
}

func handleLogShow(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	predicate := getString(args, "predicate", "")
	last := time.Duration(getFloat(args, "last_seconds", 60)) * time.Second
	lines, err := d.Simctl.LogShow(ctx, udid, predicate, last)
	if err != nil {
		return errorResult(err)
	}
	return textResult(joinLines(lines))
}

func handleLogStream(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult {
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	predicate := getString(args, "predicate", "")
	duration := time.Duration(getFloat(args, "duration_seconds", 5)) * time.Second
	lines, err := d.Simctl.LogStream(ctx, udid, predicate, duration)
	if err != nil {
		return errorResult(err)
	}
	return textResult(joinLines(lines))
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
