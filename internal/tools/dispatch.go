package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/riwsky/iosef/internal/ax"
	"github.com/riwsky/iosef/internal/cache"
	"github.com/riwsky/iosef/internal/config"
	"github.com/riwsky/iosef/internal/simctl"
	"github.com/riwsky/iosef/internal/simhandle"
)

// axBridgeHandle bundles a resolved device's accessibility bridge with its
// underlying SimulatorHandle, since bridge queries need both.
type axBridgeHandle struct {
	bridge *ax.Bridge
	handle *simhandle.SimulatorHandle
	udid   string
}

// handlerFunc is the signature every tool handler implements.
type handlerFunc func(ctx context.Context, d *Dispatcher, args map[string]interface{}) ToolResult

// Dispatcher maps a tool name to a handler, resolving devices through the
// resource cache and running simctl-backed operations through the simctl
// client.
type Dispatcher struct {
	Cache  *cache.Cache
	Simctl *simctl.Client
	Env    config.Environment

	handlers map[string]handlerFunc
}

// New constructs a Dispatcher with the canonical ~20-tool registry.
func New(c *cache.Cache, sc *simctl.Client, env config.Environment) *Dispatcher {
	d := &Dispatcher{Cache: c, Simctl: sc, Env: env}
	d.handlers = map[string]handlerFunc{
		"get-booted-sim-id": handleGetBootedSimID,
		"describe":          handleDescribe,
		"tap":               handleTap,
		"type":              handleType,
		"swipe":             handleSwipe,
		"view":              handleView,
		"install-app":       handleInstallApp,
		"launch-app":        handleLaunchApp,
		"find":              handleFind,
		"exists":            handleExists,
		"count":             handleCount,
		"text":              handleText,
		"tap-element":       handleTapElement,
		"input":             handleInput,
		"wait":              handleWait,
		"log-show":          handleLogShow,
		"log-stream":        handleLogStream,
	}
	return d
}

// Descriptors returns the tool descriptor list for the "list tools"
// agent-protocol method, excluding any tool named in IOSEF_FILTERED_TOOLS.
func (d *Dispatcher) Descriptors() []ToolDescriptor {
	var out []ToolDescriptor
	for _, desc := range toolDescriptors {
		if d.Env.FilteredTools[desc.Name] {
			continue
		}
		out = append(out, desc)
	}
	return out
}

// Dispatch invokes the named tool with args, returning a uniform
// ToolResult. An unknown or filtered tool name is reported as a text error
// result rather than a panic or Go error, matching the "never propagate
// errors out of dispatch" policy for the agent-protocol server.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]interface{}) ToolResult {
	if d.Env.FilteredTools[name] {
		return errorResult(fmt.Errorf("tools: %q is filtered", name))
	}
	h, ok := d.handlers[name]
	if !ok {
		return errorResult(fmt.Errorf("tools: unknown tool %q", name))
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return h(ctx, d, args)
}

// timeout returns the per-operation deadline: the "timeout" argument if
// present, else the environment default.
func (d *Dispatcher) timeout(args map[string]interface{}) time.Duration {
	if secs := getFloatPtr(args, "timeout"); secs != nil {
		return time.Duration(*secs * float64(time.Second))
	}
	return d.Env.Timeout
}

// resolveDevice reads the conventional "device" argument (a udid or name,
// may be absent) and resolves it through the cache.
func (d *Dispatcher) resolveDevice(ctx context.Context, args map[string]interface{}) (udid, name string, err error) {
	return d.Cache.ResolveDevice(ctx, getString(args, "device", ""))
}

// resolveAX resolves the target device and returns both its accessibility
// bridge and its underlying handle, since a bridge operation needs the
// handle to register the delegate token.
func (d *Dispatcher) resolveAX(ctx context.Context, args map[string]interface{}) (bridge *axBridgeHandle, err error) {
	udid, _, err := d.resolveDevice(ctx, args)
	if err != nil {
		return nil, err
	}
	ab, err := d.Cache.GetAccessibilityBridge(udid)
	if err != nil {
		return nil, err
	}
	sh, err := d.Cache.GetHandle(udid)
	if err != nil {
		return nil, err
	}
	return &axBridgeHandle{bridge: ab, handle: sh, udid: udid}, nil
}
