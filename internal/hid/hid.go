// Package hid drives the simulator's touch/button/keyboard input channel: it
// builds wire records from internal/wire and dispatches them through a
// SimulatorHandle. Every operation is fire-and-forget with respect to
// device acknowledgment — dispatch returns as soon as the message is
// enqueued on the native channel.
package hid

import (
	"time"

	"github.com/riwsky/iosef/internal/native"
	"github.com/riwsky/iosef/internal/simhandle"
	"github.com/riwsky/iosef/internal/wire"
)

// touchHoldDuration is the empirical delay between touch-down and touch-up
// for a tap. The simulator accepts shorter holds but some apps debounce
// below ~20ms; this constant is not load-bearing, just a safe default.
const touchHoldDuration = 30 * time.Millisecond

const interCharDelay = 10 * time.Millisecond

// Client owns one simulator handle and its native HID client reference.
type Client struct {
	handle *simhandle.SimulatorHandle
	native native.ObjHandle
}

// NewClient creates an HID client bound to handle, constructing its native
// client reference via the bridge.
func NewClient(handle *simhandle.SimulatorHandle) (*Client, error) {
	client, err := handle.CreateHIDClient()
	if err != nil {
		return nil, err
	}
	return &Client{handle: handle, native: client}, nil
}

func (c *Client) ratios(x, y float64) (float64, float64) {
	return wire.Ratios(x, y, c.handle.PixelWidth, c.handle.PixelHeight, c.handle.Scale)
}

// buildTouch constructs a touch message for (xr, yr) at the given
// direction, preferring the host's mouse-event-builder entry point (§4.1's
// primary construction path) and falling back to the manual byte-level
// construction when the builder is unavailable.
func (c *Client) buildTouch(xr, yr float64, direction uint32) *wire.TouchMessage {
	if built, ok := c.handle.BuildMouseEvent(xr, yr, direction); ok {
		if msg, ok := wire.BuildTouchFromBuiltEvent(built, xr, yr, direction, nowTicks()); ok {
			return msg
		}
	}
	return wire.BuildTouchRaw(xr, yr, direction, nowTicks())
}

func (c *Client) dispatchTouch(x, y float64, direction uint32) error {
	xr, yr := c.ratios(x, y)
	msg := c.buildTouch(xr, yr, direction)
	return c.handle.SendHIDMessage(msg[:], c.native)
}

// Tap dispatches a touch-down followed, after a 30ms hold, by a touch-up at
// the same coordinate.
func (c *Client) Tap(x, y float64) error {
	return c.LongPress(x, y, touchHoldDuration)
}

// LongPress is a tap with an explicit hold duration.
func (c *Client) LongPress(x, y float64, hold time.Duration) error {
	if err := c.dispatchTouch(x, y, wire.DirectionDown); err != nil {
		return err
	}
	time.Sleep(hold)
	return c.dispatchTouch(x, y, wire.DirectionUp)
}

// Swipe dispatches a down at (x0,y0), `steps` linearly-interpolated drag
// messages (ratio space, to avoid sign/scale drift on very short swipes),
// then an up at (x1,y1). The per-step sleep is totalDuration/steps, or 10ms
// if totalDuration is zero.
func (c *Client) Swipe(x0, y0, x1, y1 float64, steps int, totalDuration time.Duration) error {
	if steps < 1 {
		steps = 1
	}
	perStep := 10 * time.Millisecond
	if totalDuration > 0 {
		perStep = totalDuration / time.Duration(steps)
	}

	if err := c.dispatchTouch(x0, y0, wire.DirectionDown); err != nil {
		return err
	}

	x0r, y0r := c.ratios(x0, y0)
	x1r, y1r := c.ratios(x1, y1)
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		xr := x0r + (x1r-x0r)*frac
		yr := y0r + (y1r-y0r)*frac
		msg := c.buildTouch(xr, yr, wire.DirectionDown)
		if err := c.handle.SendHIDMessage(msg[:], c.native); err != nil {
			return err
		}
		time.Sleep(perStep)
	}

	return c.dispatchTouch(x1, y1, wire.DirectionUp)
}

// PressButton dispatches a hardware-button message for the given source
// code and direction.
func (c *Client) PressButton(source, direction uint32) error {
	msg := wire.BuildButton(wire.ButtonTargetHardwarePress, source, direction, nowTicks())
	return c.handle.SendHIDMessage(msg[:], c.native)
}

// TypeASCII dispatches a shift-aware key-down/key-up pair per printable
// ASCII character, newline or tab in text, sleeping 10ms between characters. Unmappable
// characters are silently skipped.
func (c *Client) TypeASCII(text string) error {
	for _, r := range text {
		code, shift, ok := wire.ASCIIKeycode(r)
		if !ok {
			continue
		}
		if shift {
			if err := c.dispatchKey(wire.KeyLeftShift, true); err != nil {
				return err
			}
		}
		if err := c.dispatchKey(code, true); err != nil {
			return err
		}
		if err := c.dispatchKey(code, false); err != nil {
			return err
		}
		if shift {
			if err := c.dispatchKey(wire.KeyLeftShift, false); err != nil {
				return err
			}
		}
		time.Sleep(interCharDelay)
	}
	return nil
}

// PressKeyCombo dispatches modifierCode down, keyCode down, keyCode up,
// modifierCode up, sleeping interCharDelay once before releasing the
// modifier; the first three steps are sent back to back. Used by the
// pasteboard-based secondary text-entry strategy to synthesize Cmd+V.
func (c *Client) PressKeyCombo(modifierCode, keyCode uint32) error {
	if err := c.dispatchKey(modifierCode, true); err != nil {
		return err
	}
	if err := c.dispatchKey(keyCode, true); err != nil {
		return err
	}
	if err := c.dispatchKey(keyCode, false); err != nil {
		return err
	}
	time.Sleep(interCharDelay)
	return c.dispatchKey(modifierCode, false)
}

func (c *Client) dispatchKey(keyCode uint32, down bool) error {
	msg := wire.BuildKeyboard(keyCode, down, nowTicks())
	return c.handle.SendHIDMessage(msg[:], c.native)
}

func nowTicks() uint64 {
	return uint64(time.Now().UnixNano())
}
