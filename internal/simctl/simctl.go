// Package simctl is a thin collaborator around the host's `xcrun simctl`
// command: device discovery/boot/shutdown, app install/launch, log
// retrieval, and screenshot capture. It is a straightforward adapter
// around an OS facility, not part of the core's invariants.
package simctl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"howett.net/plist"
)

// Device mirrors one entry of `simctl list devices --json`.
type Device struct {
	UDID    string
	Name    string
	State   string
	Runtime string
}

// IsBooted reports whether the device's state is "Booted".
func (d Device) IsBooted() bool { return d.State == "Booted" }

// SimctlFailed surfaces a failed simctl invocation verbatim.
type SimctlFailed struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *SimctlFailed) Error() string {
	return fmt.Sprintf("simctl %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, e.Stderr)
}

const (
	listDevicesTimeout = 10 * time.Second
	bootTimeout        = 30 * time.Second
	shutdownTimeout    = 30 * time.Second
	installTimeout     = 60 * time.Second
	launchTimeout      = 15 * time.Second
	cacheTTL           = 2 * time.Second
)

// Client shells out to `xcrun simctl` and caches device listings briefly to
// avoid hammering the host command for back-to-back resolution calls.
type Client struct {
	xcrunPath string

	cacheMu sync.Mutex
	cached  []Device
	cacheAt time.Time
}

// NewClient constructs a Client that invokes the system `xcrun`.
func NewClient() *Client {
	return &Client{xcrunPath: "xcrun"}
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(cmdCtx, c.xcrunPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return nil, &SimctlFailed{Args: args, ExitCode: exitCode, Stderr: strings.TrimSpace(stderr.String())}
	}
	return stdout.Bytes(), nil
}

// ListDevices returns every available simulator across every installed
// runtime, served from a short-lived cache when possible.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	c.cacheMu.Lock()
	if c.cached != nil && time.Since(c.cacheAt) < cacheTTL {
		devs := make([]Device, len(c.cached))
		copy(devs, c.cached)
		c.cacheMu.Unlock()
		return devs, nil
	}
	c.cacheMu.Unlock()

	out, err := c.run(ctx, listDevicesTimeout, "simctl", "list", "devices", "--json")
	if err != nil {
		return nil, err
	}

	var devices []Device
	result := gjson.GetBytes(out, "devices")
	result.ForEach(func(runtime, devs gjson.Result) bool {
		runtimeName := parseRuntimeName(runtime.String())
		devs.ForEach(func(_, d gjson.Result) bool {
			if !d.Get("isAvailable").Bool() {
				return true
			}
			devices = append(devices, Device{
				UDID:    d.Get("udid").String(),
				Name:    d.Get("name").String(),
				State:   d.Get("state").String(),
				Runtime: runtimeName,
			})
			return true
		})
		return true
	})

	c.cacheMu.Lock()
	c.cached = devices
	c.cacheAt = time.Now()
	c.cacheMu.Unlock()

	return devices, nil
}

// parseRuntimeName turns "com.apple.CoreSimulator.SimRuntime.iOS-17-0" into
// "iOS 17.0".
func parseRuntimeName(runtimeID string) string {
	parts := strings.Split(runtimeID, ".")
	if len(parts) == 0 {
		return runtimeID
	}
	last := parts[len(parts)-1]
	segments := strings.Split(last, "-")
	if len(segments) >= 2 {
		return fmt.Sprintf("%s %s", segments[0], strings.Join(segments[1:], "."))
	}
	return last
}

// ListBooted returns only devices in the Booted state.
func (c *Client) ListBooted(ctx context.Context) ([]Device, error) {
	all, err := c.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	var booted []Device
	for _, d := range all {
		if d.IsBooted() {
			booted = append(booted, d)
		}
	}
	return booted, nil
}

// FindByUDID resolves a device by exact UDID.
func (c *Client) FindByUDID(ctx context.Context, udid string) (Device, bool, error) {
	all, err := c.ListDevices(ctx)
	if err != nil {
		return Device{}, false, err
	}
	for _, d := range all {
		if strings.EqualFold(d.UDID, udid) {
			return d, true, nil
		}
	}
	return Device{}, false, nil
}

// FindByName resolves a device by exact, then substring, case-insensitive
// name match.
func (c *Client) FindByName(ctx context.Context, name string) (Device, bool, error) {
	all, err := c.ListDevices(ctx)
	if err != nil {
		return Device{}, false, err
	}
	needle := strings.ToLower(name)
	for _, d := range all {
		if strings.ToLower(d.Name) == needle {
			return d, true, nil
		}
	}
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, true, nil
		}
	}
	return Device{}, false, nil
}

// Boot boots a simulator by UDID; already-booted is not an error.
func (c *Client) Boot(ctx context.Context, udid string) error {
	_, err := c.run(ctx, bootTimeout, "simctl", "boot", udid)
	if err != nil {
		if sf, ok := err.(*SimctlFailed); ok && strings.Contains(sf.Stderr, "current state: Booted") {
			return nil
		}
		return err
	}
	return nil
}

// Shutdown shuts down a simulator by UDID.
func (c *Client) Shutdown(ctx context.Context, udid string) error {
	_, err := c.run(ctx, shutdownTimeout, "simctl", "shutdown", udid)
	return err
}

// InstallApp installs the .app bundle at appPath on the given device.
func (c *Client) InstallApp(ctx context.Context, udid, appPath string) error {
	_, err := c.run(ctx, installTimeout, "simctl", "install", udid, appPath)
	return err
}

// LaunchApp launches bundleID on the given device, returning its reported
// pid.
func (c *Client) LaunchApp(ctx context.Context, udid, bundleID string) (int, error) {
	out, err := c.run(ctx, launchTimeout, "simctl", "launch", udid, bundleID)
	if err != nil {
		return 0, err
	}
	// Output is "<bundleID>: <pid>\n".
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, fmt.Errorf("simctl: launch produced no pid for %s", bundleID)
	}
	pidStr := fields[len(fields)-1]
	var pid int
	if _, err := fmt.Sscanf(pidStr, "%d", &pid); err != nil {
		return 0, fmt.Errorf("simctl: could not parse pid from %q", out)
	}
	return pid, nil
}

// BundleIdentifier reads an .app bundle's Info.plist and returns its
// CFBundleIdentifier, used to resolve install-app's bundle id when the
// caller only supplies a path.
func BundleIdentifier(appPath string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(appPath, "Info.plist"))
	if err != nil {
		return "", fmt.Errorf("simctl: read Info.plist: %w", err)
	}
	var data map[string]interface{}
	if _, err := plist.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("simctl: parse Info.plist: %w", err)
	}
	id, _ := data["CFBundleIdentifier"].(string)
	if id == "" {
		return "", fmt.Errorf("simctl: Info.plist at %s has no CFBundleIdentifier", appPath)
	}
	return id, nil
}

// Screenshot captures the device's screen to outputPath in the format
// implied by its extension (simctl infers from the file extension: png,
// jpeg, tiff, bmp, or gif).
func (c *Client) Screenshot(ctx context.Context, udid, outputPath string) error {
	_, err := c.run(ctx, installTimeout, "simctl", "io", udid, "screenshot", outputPath)
	return err
}

const maxLogLines = 500

// LogShow returns up to the last maxLogLines lines of the device's log
// matching predicate (an os_log-style predicate string, may be empty).
func (c *Client) LogShow(ctx context.Context, udid, predicate string, last time.Duration) ([]string, error) {
	args := []string{"simctl", "spawn", udid, "log", "show", "--style", "compact", "--last", last.String()}
	if predicate != "" {
		args = append(args, "--predicate", predicate)
	}
	out, err := c.run(ctx, 30*time.Second, args...)
	if err != nil {
		return nil, err
	}
	return trimLines(out, maxLogLines), nil
}

// LogStream runs `simctl spawn log stream` for duration (clamped to
// [1s, 30s]) and returns up to maxLogLines lines of output observed in
// that window.
func (c *Client) LogStream(ctx context.Context, udid, predicate string, duration time.Duration) ([]string, error) {
	if duration < time.Second {
		duration = time.Second
	}
	if duration > 30*time.Second {
		duration = 30 * time.Second
	}

	args := []string{"simctl", "spawn", udid, "log", "stream", "--style", "compact"}
	if predicate != "" {
		args = append(args, "--predicate", predicate)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, duration+2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(cmdCtx, c.xcrunPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("simctl: log stream start: %w", err)
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()
	<-timer.C
	_ = cmd.Process.Kill()
	_ = cmd.Wait()

	return trimLines(stdout.Bytes(), maxLogLines), nil
}

func trimLines(out []byte, max int) []string {
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines
}
