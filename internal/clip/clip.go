// Package clip implements the pasteboard-based secondary text-entry
// strategy called out in the system's open questions: copy text to the
// host pasteboard, then synthesize Cmd+V via the HID keyboard path. HID
// typing (internal/hid.Client.TypeASCII) is the default text-entry
// strategy; this is a fallback for text the printable-ASCII keycode table
// cannot express.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/riwsky/iosef/internal/hid"
	"github.com/riwsky/iosef/internal/wire"
)

// Paste copies text to the host pasteboard and synthesizes Cmd+V on the
// given HID client to paste it into the focused field.
func Paste(client *hid.Client, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clip: write pasteboard: %w", err)
	}
	if err := client.PressKeyCombo(wire.KeyLeftCommand, wire.KeyV); err != nil {
		return fmt.Errorf("clip: paste key combo: %w", err)
	}
	return nil
}
