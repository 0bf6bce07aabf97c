// Package tray manages the optional macOS menu-bar status indicator:
// connected device, last tool call, and a quick-inspect trigger.
package tray

import (
	"fmt"

	"fyne.io/systray"
)

// RunOpts configures the system tray.
type RunOpts struct {
	Version          string
	HotkeyLabel      string // human-readable binding, shown in the quick-inspect menu item
	AutoStartEnabled bool
	OnReady          func()
	OnQuickInspect   func()
	OnAutoStart      func(enabled bool)
	OnQuit           func()
}

// Run starts the system tray. It blocks on the main thread.
func Run(opts RunOpts) {
	systray.Run(func() {
		systray.SetTitle("iosef")
		systray.SetTooltip("iosef — no device")

		versionLabel := "iosef"
		if opts.Version != "" && opts.Version != "dev" {
			versionLabel += " v" + opts.Version
		}
		mVersion := systray.AddMenuItem(versionLabel, "")
		mVersion.Disable()

		systray.AddSeparator()

		mDevice := systray.AddMenuItem("Device: none", "")
		mDevice.Disable()
		mLastCall := systray.AddMenuItem("Last call: none", "")
		mLastCall.Disable()

		systray.AddSeparator()

		quickInspectLabel := "Quick Inspect"
		if opts.HotkeyLabel != "" {
			quickInspectLabel = fmt.Sprintf("Quick Inspect (%s)", opts.HotkeyLabel)
		}
		mQuickInspect := systray.AddMenuItem(quickInspectLabel, "Describe the frontmost app and copy it to the pasteboard")

		systray.AddSeparator()

		mAutoStart := systray.AddMenuItemCheckbox("Start on Login", "Launch iosef-tray automatically on login", opts.AutoStartEnabled)

		systray.AddSeparator()

		mQuit := systray.AddMenuItem("Quit", "Exit iosef")

		deviceItem = mDevice
		lastCallItem = mLastCall

		if opts.OnReady != nil {
			opts.OnReady()
		}

		go func() {
			for {
				select {
				case <-mQuickInspect.ClickedCh:
					if opts.OnQuickInspect != nil {
						opts.OnQuickInspect()
					}
				case <-mAutoStart.ClickedCh:
					if mAutoStart.Checked() {
						mAutoStart.Uncheck()
						if opts.OnAutoStart != nil {
							opts.OnAutoStart(false)
						}
					} else {
						mAutoStart.Check()
						if opts.OnAutoStart != nil {
							opts.OnAutoStart(true)
						}
					}
				case <-mQuit.ClickedCh:
					if opts.OnQuit != nil {
						opts.OnQuit()
					}
					systray.Quit()
					return
				}
			}
		}()
	}, func() {})
}

var (
	deviceItem   *systray.MenuItem
	lastCallItem *systray.MenuItem
)

// SetDevice updates the tray's connected-device display.
func SetDevice(name string) {
	if name == "" {
		name = "none"
	}
	systray.SetTooltip(fmt.Sprintf("iosef — %s", name))
	if deviceItem != nil {
		deviceItem.SetTitle(fmt.Sprintf("Device: %s", name))
	}
}

// SetLastCall updates the tray's last-tool-call display.
func SetLastCall(toolName string) {
	if lastCallItem != nil {
		lastCallItem.SetTitle(fmt.Sprintf("Last call: %s", toolName))
	}
}

// Quit stops the system tray.
func Quit() {
	systray.Quit()
}
