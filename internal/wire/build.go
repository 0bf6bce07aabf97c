package wire

// Ratios converts an iOS-point coordinate into the [0,1] screen-ratio space
// the host's mouse-event-builder expects, given the pixel screen size (W,H)
// and scale s. xr = x*s/W, yr = y*s/H.
func Ratios(x, y float64, pixelW, pixelH int, scale float64) (xr, yr float64) {
	return x * scale / float64(pixelW), y * scale / float64(pixelH)
}

// BuildTouchRaw constructs a 320-byte touch message entirely in wire
// space, without calling into the host's mouse-event-builder entry point.
// This is the manual-fallback construction path (§4.1): direction
// indicators are written straight to field9/field10 rather than being
// populated by the builder's opaque auxiliary semantics.
func BuildTouchRaw(xr, yr float64, direction uint32, timestampTicks uint64) *TouchMessage {
	var tm TouchMessage
	msg := tm.Message()
	msg.SetInnerSize(SizePayload)
	msg.SetEventType(EventTypeTouch)

	payload := msg.Payload()
	payload.SetField1(0x0b)
	payload.SetTimestamp(timestampTicks)

	touch := (*TouchEvent)(payload.Event()[:SizeTouchEvent])
	touch.SetXRatio(xr)
	touch.SetYRatio(yr)
	touch.SetDirectionIndicators(direction, direction)

	// Duplicate the first payload byte-for-byte into the second slot,
	// then override the duplicate's differentiator fields.
	copy(tm.SecondPayload()[:], payload[:])
	tm.ApplyDuplicateDifferentiators()

	return &tm
}

// BuildTouchFromBuiltEvent overlays a touch record obtained from the host's
// mouse-event-builder entry point (raw bytes, SizeTouchEvent long) into
// the message's first payload, then overwrites xRatio/yRatio with the
// precisely computed ratios — the builder populates several opaque
// direction-indicator fields we want to keep, but writes the ratios with
// auxiliary semantics we do not rely on.
func BuildTouchFromBuiltEvent(built []byte, xr, yr float64, direction uint32, timestampTicks uint64) (*TouchMessage, bool) {
	if len(built) < SizeTouchEvent {
		return nil, false
	}

	var tm TouchMessage
	msg := tm.Message()
	msg.SetInnerSize(SizePayload)
	msg.SetEventType(EventTypeTouch)

	payload := msg.Payload()
	payload.SetField1(0x0b)
	payload.SetTimestamp(timestampTicks)

	ev := payload.Event()
	copy(ev[:SizeTouchEvent], built[:SizeTouchEvent])

	touch := (*TouchEvent)(ev[:SizeTouchEvent])
	touch.SetXRatio(xr)
	touch.SetYRatio(yr)
	_ = direction // direction is already baked into the builder's output

	copy(tm.SecondPayload()[:], payload[:])
	tm.ApplyDuplicateDifferentiators()

	return &tm, true
}

// BuildButton constructs a 176-byte hardware-button message.
func BuildButton(target, source, direction uint32, timestampTicks uint64) *Message {
	var msg Message
	msg.SetInnerSize(SizeButtonEvent)
	msg.SetEventType(EventTypeButton)

	payload := msg.Payload()
	payload.SetTimestamp(timestampTicks)

	be := (*ButtonEvent)(payload.Event()[:SizeButtonEvent])
	be.SetTarget(target)
	be.SetSource(source)
	be.SetDirection(direction)

	return &msg
}

// BuildKeyboard constructs a 176-byte keyboard message for a single key
// event (key down or key up, never both).
func BuildKeyboard(keyCode uint32, down bool, timestampTicks uint64) *Message {
	var msg Message
	msg.SetInnerSize(SizeButtonEvent)
	msg.SetEventType(EventTypeButton)

	payload := msg.Payload()
	payload.SetTimestamp(timestampTicks)

	ke := (*KeyboardEvent)(payload.Event()[:SizeButtonEvent])
	ke.SetKeyCode(keyCode)
	dir := DirectionUp
	if down {
		dir = DirectionDown
	}
	ke.SetDirection(dir)

	return &msg
}
