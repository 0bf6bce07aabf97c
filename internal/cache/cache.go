// Package cache implements the process-wide resource cache actor: it
// memoizes device resolution (short TTL) and per-device HID/accessibility
// handles (process lifetime), and is the single writer for all three.
package cache

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/riwsky/iosef/internal/ax"
	"github.com/riwsky/iosef/internal/hid"
	"github.com/riwsky/iosef/internal/native"
	"github.com/riwsky/iosef/internal/simctl"
	"github.com/riwsky/iosef/internal/simhandle"
)

// DeviceNotFound is raised when neither a UDID nor a name lookup resolves
// to a known device.
type DeviceNotFound struct {
	IdentifierOrName string
}

func (e *DeviceNotFound) Error() string {
	return fmt.Sprintf("cache: no device found for %q", e.IdentifierOrName)
}

// DeviceNotBooted is raised when a resolved device is not in the Booted
// state, with a concrete remediation hint.
type DeviceNotBooted struct {
	Name  string
	UDID  string
	State string
}

func (e *DeviceNotBooted) Error() string {
	return fmt.Sprintf("cache: device %s (%s) is %s, not Booted — run `xcrun simctl boot %s`",
		e.Name, e.UDID, e.State, e.UDID)
}

const deviceCacheTTL = 30 * time.Second

var udidPattern = regexp.MustCompile(`^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}$`)

// deviceCacheEntry is the in-memory short-TTL device-resolution memo.
type deviceCacheEntry struct {
	udid string
	name string
	at   time.Time
}

// Cache is the sole writer for the device entry, HID-client map, and
// accessibility-bridge map. All reads go through its methods.
type Cache struct {
	bridge *native.Bridge
	simctl *simctl.Client

	// defaultDeviceName is signal (i) of the resolution fallback chain:
	// an explicit default set at process start from an environment
	// variable or the VCS-root directory basename.
	defaultDeviceName string

	mu         sync.Mutex
	entry      *deviceCacheEntry
	handles    map[string]*simhandle.SimulatorHandle
	hidClients map[string]*hid.Client
	axBridges  map[string]*ax.Bridge
}

// New constructs a Cache. defaultDeviceName is the process-start device
// name hint (signal (i) of resolve-device's fallback chain); it may be
// empty.
func New(bridge *native.Bridge, sc *simctl.Client, defaultDeviceName string) *Cache {
	return &Cache{
		bridge:            bridge,
		simctl:            sc,
		defaultDeviceName: defaultDeviceName,
		handles:           make(map[string]*simhandle.SimulatorHandle),
		hidClients:        make(map[string]*hid.Client),
		axBridges:         make(map[string]*ax.Bridge),
	}
}

// ResolveDevice resolves identifier (a UDID, a device name, or empty) to a
// booted device's (udid, name). Resolution order when identifier is empty:
// a fresh (≤30s) in-memory cache entry, else the configured default device
// name, else the first booted device.
func (c *Cache) ResolveDevice(ctx context.Context, identifier string) (udid, name string, err error) {
	var dev simctl.Device
	var found bool

	switch {
	case udidPattern.MatchString(identifier):
		dev, found, err = c.simctl.FindByUDID(ctx, identifier)
	case identifier != "":
		dev, found, err = c.simctl.FindByName(ctx, identifier)
	default:
		dev, found, err = c.resolveDefault(ctx)
	}
	if err != nil {
		return "", "", err
	}
	if !found {
		id := identifier
		if id == "" {
			id = "<default>"
		}
		return "", "", &DeviceNotFound{IdentifierOrName: id}
	}
	if !dev.IsBooted() {
		return "", "", &DeviceNotBooted{Name: dev.Name, UDID: dev.UDID, State: dev.State}
	}

	c.mu.Lock()
	c.entry = &deviceCacheEntry{udid: dev.UDID, name: dev.Name, at: time.Now()}
	c.mu.Unlock()

	return dev.UDID, dev.Name, nil
}

func (c *Cache) resolveDefault(ctx context.Context) (simctl.Device, bool, error) {
	c.mu.Lock()
	entry := c.entry
	c.mu.Unlock()
	if entry != nil && time.Since(entry.at) <= deviceCacheTTL {
		return c.simctl.FindByUDID(ctx, entry.udid)
	}

	if c.defaultDeviceName != "" {
		if dev, found, err := c.simctl.FindByName(ctx, c.defaultDeviceName); err == nil && found {
			return dev, true, nil
		}
	}

	booted, err := c.simctl.ListBooted(ctx)
	if err != nil {
		return simctl.Device{}, false, err
	}
	if len(booted) == 0 {
		return simctl.Device{}, false, nil
	}
	return booted[0], true, nil
}

func (c *Cache) getHandle(udid string) (*simhandle.SimulatorHandle, error) {
	c.mu.Lock()
	h, ok := c.handles[udid]
	c.mu.Unlock()
	if ok {
		return h, nil
	}

	h, err := simhandle.Open(c.bridge, udid)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.handles[udid]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.handles[udid] = h
	c.mu.Unlock()
	return h, nil
}

// GetHandle returns the cached SimulatorHandle for udid, constructing one
// on first request. Used by tool handlers that need the native
// install/launch verbs directly rather than through the HID or
// accessibility clients.
func (c *Cache) GetHandle(udid string) (*simhandle.SimulatorHandle, error) {
	return c.getHandle(udid)
}

// GetHIDClient returns the cached HID client for udid, constructing one on
// first request. The same reference is returned on repeated calls until
// Shutdown.
func (c *Cache) GetHIDClient(udid string) (*hid.Client, error) {
	c.mu.Lock()
	client, ok := c.hidClients[udid]
	c.mu.Unlock()
	if ok {
		return client, nil
	}

	handle, err := c.getHandle(udid)
	if err != nil {
		return nil, err
	}
	client, err = hid.NewClient(handle)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.hidClients[udid]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.hidClients[udid] = client
	c.mu.Unlock()
	return client, nil
}

// GetAccessibilityBridge returns the cached accessibility bridge for udid,
// constructing one on first request.
func (c *Cache) GetAccessibilityBridge(udid string) (*ax.Bridge, error) {
	c.mu.Lock()
	bridge, ok := c.axBridges[udid]
	c.mu.Unlock()
	if ok {
		return bridge, nil
	}

	handle, err := c.getHandle(udid)
	if err != nil {
		return nil, err
	}
	bridge, err = ax.Open(c.bridge, handle)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.axBridges[udid]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.axBridges[udid] = bridge
	c.mu.Unlock()
	return bridge, nil
}

// Shutdown drops every cached handle so Mach ports and XPC connections
// close deterministically rather than relying on the OS to reap them. Must
// run before process exit.
func (c *Cache) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for udid, b := range c.axBridges {
		b.Close()
		log.Printf("[cache] released accessibility bridge for %s", udid)
	}
	c.axBridges = make(map[string]*ax.Bridge)
	c.hidClients = make(map[string]*hid.Client)
	c.handles = make(map[string]*simhandle.SimulatorHandle)
	c.entry = nil
}
