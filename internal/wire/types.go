// Package wire implements the packed Indigo HID message layouts used by the
// simulator's private Mach-based input channel: touch, button, and keyboard
// events, each a fixed-size byte sequence with compile-time-verified offsets.
//
// Layouts are expressed as raw byte arrays rather than Go structs: Go gives
// no portable way to pin field offsets the way C struct packing does, and
// these offsets are the host's private wire contract, not ours to choose.
// Every field is read and written with encoding/binary at a named constant
// offset, so the layout is exact regardless of compiler or platform.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Event type codes (Message.EventType).
const (
	EventTypeButton uint8 = 1
	EventTypeTouch  uint8 = 2
)

// Direction codes shared by touch and button events.
const (
	DirectionDown uint32 = 1
	DirectionUp   uint32 = 2
)

// Hardware button source/target codes.
const (
	ButtonTargetHardwarePress uint32 = 0x33

	ButtonSourceHome     uint32 = 0x01
	ButtonSourceLock     uint32 = 0x02
	ButtonSourceSide     uint32 = 0x03
	ButtonSourceSiri     uint32 = 0x04
	ButtonSourceApplePay uint32 = 0x05
	ButtonSourceKeyboard uint32 = 0x06
)

// Byte sizes and offsets mandated by the wire format (§4.1 / §6).
const (
	SizeTouchEvent          = 112
	SizeButtonEvent         = 20
	SizeGameControllerEvent = 128
	SizePayload             = 144
	SizeMessage             = 176
	SizeTouchMessage        = 320

	OffsetTouchXRatio  = 0x0c
	OffsetTouchYRatio  = 0x14
	OffsetTouchField9  = 0x34
	OffsetTouchField10 = 0x38

	OffsetPayloadField1    = 0x00
	OffsetPayloadTimestamp = 0x04
	OffsetPayloadField3    = 0x0c
	OffsetPayloadEvent     = 0x10

	offsetMachHeader     = 0x00
	sizeMachHeader       = 24
	OffsetInnerSize      = 0x18
	OffsetEventType      = 0x1c
	OffsetMessagePayload = 0x20

	offsetSecondPayload = OffsetMessagePayload + SizePayload // 0xb0

	// Touch-message second-payload differentiators (§6): once the first
	// payload is duplicated into the second slot, these two fields are
	// overwritten inside the duplicate's touch event.
	touchDupField1 uint32 = 0x00000001
	touchDupField2 uint32 = 0x00000002
)

func init() {
	if offsetSecondPayload != 0xb0 {
		panic(fmt.Sprintf("wire: second payload offset mismatch: got 0x%x want 0xb0", offsetSecondPayload))
	}
	if sizeMachHeader != 24 {
		panic("wire: mach header size mismatch")
	}
}

// TouchEvent is a 112-byte touch record: xRatio/yRatio are IEEE-754 doubles
// at offsets 0x0c/0x14; the duplicated second payload's field1/field2
// (relative offsets 0x00/0x04 within the event) are overridden per §3.
type TouchEvent [SizeTouchEvent]byte

func (t *TouchEvent) SetXRatio(v float64) {
	binary.LittleEndian.PutUint64(t[OffsetTouchXRatio:], math.Float64bits(v))
}

func (t *TouchEvent) SetYRatio(v float64) {
	binary.LittleEndian.PutUint64(t[OffsetTouchYRatio:], math.Float64bits(v))
}

func (t *TouchEvent) XRatio() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(t[OffsetTouchXRatio:]))
}

func (t *TouchEvent) YRatio() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(t[OffsetTouchYRatio:]))
}

// SetField1 sets the field at relative offset 0x00 ("field1"), which the
// second-payload differentiator overrides.
func (t *TouchEvent) SetField1(v uint32) { binary.LittleEndian.PutUint32(t[0x00:], v) }

// SetField2 sets the direction-indicator field at relative offset 0x04.
func (t *TouchEvent) SetField2(v uint32) { binary.LittleEndian.PutUint32(t[0x04:], v) }

// SetDirectionIndicators populates the manual-fallback direction fields at
// offsets 0x34/0x38 directly, used when the host's mouse-event-builder
// entry point is unavailable.
func (t *TouchEvent) SetDirectionIndicators(field9, field10 uint32) {
	binary.LittleEndian.PutUint32(t[OffsetTouchField9:], field9)
	binary.LittleEndian.PutUint32(t[OffsetTouchField10:], field10)
}

// ButtonEvent is the 20-byte hardware-button record.
type ButtonEvent [SizeButtonEvent]byte

func (b *ButtonEvent) SetTarget(v uint32)    { binary.LittleEndian.PutUint32(b[0x04:], v) }
func (b *ButtonEvent) SetSource(v uint32)    { binary.LittleEndian.PutUint32(b[0x08:], v) }
func (b *ButtonEvent) SetDirection(v uint32) { binary.LittleEndian.PutUint32(b[0x0c:], v) }

// KeyboardEvent is a keyboard record sharing the payload's event union.
type KeyboardEvent [SizeButtonEvent]byte

func (k *KeyboardEvent) SetKeyCode(v uint32)  { binary.LittleEndian.PutUint32(k[0x04:], v) }
func (k *KeyboardEvent) SetDirection(v uint32) { binary.LittleEndian.PutUint32(k[0x08:], v) }

// Payload is 144 bytes: field1 (uint32) at 0x00, a 64-bit timestamp at
// offset 0x04, field3 (uint32) at offset 0x0c, then the event union
// starting at offset 0x10 and padded out to the full payload width.
type Payload [SizePayload]byte

func (p *Payload) SetField1(v uint32)       { binary.LittleEndian.PutUint32(p[OffsetPayloadField1:], v) }
func (p *Payload) SetTimestamp(v uint64)    { binary.LittleEndian.PutUint64(p[OffsetPayloadTimestamp:], v) }
func (p *Payload) SetField3(v uint32)       { binary.LittleEndian.PutUint32(p[OffsetPayloadField3:], v) }
func (p *Payload) Field3() uint32           { return binary.LittleEndian.Uint32(p[OffsetPayloadField3:]) }

// Event returns a view of the event union bytes (touch/button/keyboard
// event storage) starting at offset 0x10.
func (p *Payload) Event() []byte { return p[OffsetPayloadEvent:] }

// Message is the full 176-byte wire message: Mach header at 0x00, innerSize
// at 0x18, eventType at 0x1c, three implicit padding bytes, then the first
// payload at 0x20.
type Message [SizeMessage]byte

func (m *Message) SetInnerSize(v uint32) { binary.LittleEndian.PutUint32(m[OffsetInnerSize:], v) }
func (m *Message) SetEventType(v uint8)  { m[OffsetEventType] = v }
func (m *Message) Payload() *Payload {
	return (*Payload)(m[OffsetMessagePayload : OffsetMessagePayload+SizePayload])
}

// TouchMessage is the 320-byte touch wire message: a header+payload
// Message followed by a second, duplicated payload whose touch event has
// two fields overridden (§3, §6).
type TouchMessage [SizeTouchMessage]byte

func (tm *TouchMessage) Message() *Message {
	return (*Message)(tm[0:SizeMessage])
}

func (tm *TouchMessage) SecondPayload() *Payload {
	return (*Payload)(tm[offsetSecondPayload : offsetSecondPayload+SizePayload])
}

// SecondTouchEvent returns the touch event view inside the second
// payload's event union, where the 0x01/0x02 differentiators live.
func (tm *TouchMessage) SecondTouchEvent() *TouchEvent {
	ev := tm.SecondPayload().Event()
	return (*TouchEvent)(ev[:SizeTouchEvent])
}

// ApplyDuplicateDifferentiators writes the second-payload touch-event
// differentiators mandated by §3/§6: field1 = 0x00000001, field2 =
// 0x00000002.
func (tm *TouchMessage) ApplyDuplicateDifferentiators() {
	te := tm.SecondTouchEvent()
	te.SetField1(touchDupField1)
	te.SetField2(touchDupField2)
}
