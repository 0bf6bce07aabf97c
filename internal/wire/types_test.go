package wire

import (
	"encoding/binary"
	"testing"
)

func TestSizes(t *testing.T) {
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"TouchEvent", len(TouchEvent{}), 112},
		{"ButtonEvent", len(ButtonEvent{}), 20},
		{"Payload", len(Payload{}), 144},
		{"Message", len(Message{}), 176},
		{"TouchMessage", len(TouchMessage{}), 320},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("sizeof(%s) = %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestOffsets(t *testing.T) {
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"touch.xRatio", OffsetTouchXRatio, 0x0c},
		{"touch.yRatio", OffsetTouchYRatio, 0x14},
		{"payload.event", OffsetPayloadEvent, 0x10},
		{"message.payload", OffsetMessagePayload, 0x20},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("offset(%s) = 0x%x, want 0x%x", c.name, c.got, c.want)
		}
	}
}

func TestTouchEventRatioRoundTrip(t *testing.T) {
	var ev TouchEvent
	ev.SetXRatio(0.25)
	ev.SetYRatio(0.75)
	if got := ev.XRatio(); got != 0.25 {
		t.Errorf("XRatio() = %v, want 0.25", got)
	}
	if got := ev.YRatio(); got != 0.75 {
		t.Errorf("YRatio() = %v, want 0.75", got)
	}
}

func TestRatiosBounds(t *testing.T) {
	// A coordinate at the bottom-right corner of the point space maps to
	// ratio 1.0 on both axes when scale and pixel size agree exactly.
	xr, yr := Ratios(390, 844, 1170, 2532, 3.0)
	if xr < 0 || xr > 1.001 {
		t.Errorf("xRatio out of [0,1]: %v", xr)
	}
	if yr < 0 || yr > 1.001 {
		t.Errorf("yRatio out of [0,1]: %v", yr)
	}
}

func TestBuildTouchRawDuplicatesPayloadWithDifferentiators(t *testing.T) {
	tm := BuildTouchRaw(0.1, 0.2, DirectionDown, 12345)

	msg := tm.Message()
	if msg.Payload().Field3() != 0 {
		t.Errorf("unexpected field3 in first payload")
	}

	first := msg.Payload()
	second := tm.SecondPayload()
	// The second payload starts as a byte-for-byte duplicate of the
	// first, except for the two overridden differentiator fields.
	firstTouch := (*TouchEvent)(first.Event()[:SizeTouchEvent])
	secondTouch := tm.SecondTouchEvent()

	if firstTouch.XRatio() != secondTouch.XRatio() {
		t.Errorf("duplicate payload's xRatio diverged: %v vs %v", firstTouch.XRatio(), secondTouch.XRatio())
	}
	if secondTouch[0x00] == 0 && secondTouch[0x04] == 0 {
		t.Errorf("expected second payload's differentiator fields to be set")
	}
	_ = second
}

func TestBuildButtonSetsFields(t *testing.T) {
	msg := BuildButton(ButtonTargetHardwarePress, ButtonSourceHome, DirectionDown, 1)
	be := (*ButtonEvent)(msg.Payload().Event()[:SizeButtonEvent])
	if got := binary.LittleEndian.Uint32(be[0x04:]); got != ButtonTargetHardwarePress {
		t.Errorf("target = 0x%x, want 0x%x", got, ButtonTargetHardwarePress)
	}
}
