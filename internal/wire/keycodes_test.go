package wire

import "testing"

func TestASCIIKeycodeLettersAndShift(t *testing.T) {
	code, shift, ok := ASCIIKeycode('a')
	if !ok || shift || code != 0x04 {
		t.Errorf("ASCIIKeycode('a') = (0x%x, %v, %v), want (0x04, false, true)", code, shift, ok)
	}
	code, shift, ok = ASCIIKeycode('A')
	if !ok || !shift || code != 0x04 {
		t.Errorf("ASCIIKeycode('A') = (0x%x, %v, %v), want (0x04, true, true)", code, shift, ok)
	}
}

func TestASCIIKeycodeDigitsAndShiftedSymbols(t *testing.T) {
	code, shift, ok := ASCIIKeycode('1')
	if !ok || shift || code != 0x1E {
		t.Errorf("ASCIIKeycode('1') = (0x%x, %v, %v), want (0x1E, false, true)", code, shift, ok)
	}
	code, shift, ok = ASCIIKeycode('!')
	if !ok || !shift || code != 0x1E {
		t.Errorf("ASCIIKeycode('!') = (0x%x, %v, %v), want (0x1E, true, true)", code, shift, ok)
	}
}

func TestASCIIKeycodeOutOfRange(t *testing.T) {
	for _, r := range []rune{0x1F, 0x7F, -1, 0x100} {
		if _, _, ok := ASCIIKeycode(r); ok {
			t.Errorf("ASCIIKeycode(%q) unexpectedly ok", r)
		}
	}
}

func TestASCIIKeycodeWhitespace(t *testing.T) {
	cases := map[rune]uint32{'\n': 0x28, '\t': 0x2B, ' ': 0x2C}
	for r, want := range cases {
		code, _, ok := ASCIIKeycode(r)
		if !ok || code != want {
			t.Errorf("ASCIIKeycode(%q) = (0x%x, %v), want 0x%x", r, code, ok, want)
		}
	}
}
