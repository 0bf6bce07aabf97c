// Command iosef-tray is the optional macOS menu-bar companion to iosef: it
// shows the resolved device and the last tool call, and binds a global
// hotkey that describes the frontmost app and copies the result to the
// pasteboard.
package main

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/riwsky/iosef/internal/autostart"
	"github.com/riwsky/iosef/internal/cache"
	"github.com/riwsky/iosef/internal/config"
	"github.com/riwsky/iosef/internal/hotkey"
	"github.com/riwsky/iosef/internal/native"
	"github.com/riwsky/iosef/internal/simctl"
	"github.com/riwsky/iosef/internal/tools"
	"github.com/riwsky/iosef/internal/tray"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[iosef-tray] config: %v", err)
	}

	devRoot, err := xcodeDeveloperDir()
	if err != nil {
		log.Fatalf("[iosef-tray] resolve Xcode developer directory: %v", err)
	}
	nb := native.NewBridge(devRoot)
	sc := simctl.NewClient()
	c := cache.New(nb, sc, cfg.GetDefaultDeviceName())
	env := config.LoadEnvironment()
	dispatcher := tools.New(c, sc, env)

	hkMgr := hotkey.NewManager(func() {
		quickInspect(dispatcher)
	})

	pollStop := make(chan struct{})

	tray.Run(tray.RunOpts{
		Version:     version,
		HotkeyLabel: cfg.GetQuickInspectHotkey().String(),

		OnReady: func() {
			hk := cfg.GetQuickInspectHotkey()
			if err := hkMgr.Register(hk.Modifiers, hk.Key); err != nil {
				log.Printf("[iosef-tray] hotkey register failed: %v", err)
			} else {
				log.Printf("[iosef-tray] quick-inspect hotkey: %s", hk.String())
			}
			go pollDevice(c, pollStop)
			log.Printf("[iosef-tray] ready (version %s)", version)
		},

		OnQuickInspect: func() {
			quickInspect(dispatcher)
		},

		AutoStartEnabled: autostart.IsEnabled(),
		OnAutoStart: func(enabled bool) {
			var err error
			if enabled {
				err = autostart.Enable()
			} else {
				err = autostart.Disable()
			}
			if err != nil {
				log.Printf("[iosef-tray] autostart: %v", err)
			}
		},

		OnQuit: func() {
			close(pollStop)
			hkMgr.Unregister()
			c.Shutdown()
		},
	})
}

// quickInspect runs a one-shot "describe" call against the resolved
// device's frontmost app and copies the resulting markdown tree to the
// pasteboard, updating the tray's last-call display.
func quickInspect(d *tools.Dispatcher) {
	result := d.Dispatch(context.Background(), "describe", map[string]interface{}{})
	tray.SetLastCall("describe")
	if result.IsError {
		log.Printf("[iosef-tray] quick inspect failed: %s", textOf(result))
		return
	}
	if err := clipboard.WriteAll(textOf(result)); err != nil {
		log.Printf("[iosef-tray] clipboard write failed: %v", err)
		return
	}
	log.Printf("[iosef-tray] quick inspect copied to pasteboard")
}

func textOf(result tools.ToolResult) string {
	var parts []string
	for _, item := range result.Content {
		if item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// pollDevice periodically resolves the default device and reflects it in
// the tray, since nothing else pushes connection-state changes.
func pollDevice(c *cache.Cache, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_, name, err := c.ResolveDevice(context.Background(), "")
			if err != nil {
				tray.SetDevice("")
				continue
			}
			tray.SetDevice(name)
		}
	}
}

func xcodeDeveloperDir() (string, error) {
	out, err := exec.Command("xcode-select", "-p").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
