package wire

// USB-HID keycode for the left-shift modifier.
const KeyLeftShift uint32 = 0xE1

// USB-HID keycode for the left-command (GUI) modifier, used to synthesize
// Cmd+V for the pasteboard-based secondary text-entry strategy.
const KeyLeftCommand uint32 = 0xE3

// USB-HID keycode for the "v" key.
const KeyV uint32 = 0x19

// asciiKey is one entry in the ASCII-to-USB-HID-keycode table.
type asciiKey struct {
	code  uint32
	shift bool
}

var asciiKeycodes = buildASCIIKeycodes()

// ASCIIKeycode looks up the USB-HID keycode and shift requirement for a
// printable ASCII character (0x20-0x7E), newline (Enter) or tab (Tab). The
// ok return value is false for unmappable characters, which callers must
// silently skip per §4.3.
func ASCIIKeycode(r rune) (code uint32, shift bool, ok bool) {
	if (r < 0x20 && r != '\n' && r != '\t') || r > 0x7E {
		return 0, false, false
	}
	k, ok := asciiKeycodes[byte(r)]
	if !ok {
		return 0, false, false
	}
	return k.code, k.shift, true
}

func buildASCIIKeycodes() map[byte]asciiKey {
	m := make(map[byte]asciiKey, 96)

	for i := byte(0); i < 26; i++ {
		lower := 'a' + i
		upper := 'A' + i
		m[byte(lower)] = asciiKey{code: 0x04 + uint32(i), shift: false}
		m[byte(upper)] = asciiKey{code: 0x04 + uint32(i), shift: true}
	}

	// digits 1-9 -> 0x1E..0x26, 0 -> 0x27
	for i := byte(0); i < 9; i++ {
		m['1'+i] = asciiKey{code: 0x1E + uint32(i), shift: false}
	}
	m['0'] = asciiKey{code: 0x27, shift: false}

	shiftedDigits := map[byte]uint32{
		'!': 0x1E, '@': 0x1F, '#': 0x20, '$': 0x21, '%': 0x22,
		'^': 0x23, '&': 0x24, '*': 0x25, '(': 0x26, ')': 0x27,
	}
	for r, code := range shiftedDigits {
		m[r] = asciiKey{code: code, shift: true}
	}

	// Newline and tab are the only C0 control codes ASCIIKeycode lets
	// through to this map; every other rune below 0x20 is rejected first.
	m['\n'] = asciiKey{code: 0x28, shift: false} // Enter
	m['\t'] = asciiKey{code: 0x2B, shift: false} // Tab
	m[' '] = asciiKey{code: 0x2C, shift: false}  // Space

	punct := []struct {
		plain, shifted byte
		code           uint32
	}{
		{'-', '_', 0x2D},
		{'=', '+', 0x2E},
		{'[', '{', 0x2F},
		{']', '}', 0x30},
		{'\\', '|', 0x31},
		{';', ':', 0x33},
		{'\'', '"', 0x34},
		{'`', '~', 0x35},
		{',', '<', 0x36},
		{'.', '>', 0x37},
		{'/', '?', 0x38},
	}
	for _, p := range punct {
		m[p.plain] = asciiKey{code: p.code, shift: false}
		m[p.shifted] = asciiKey{code: p.code, shift: true}
	}

	return m
}
