package tools

// toolDescriptors is the canonical tool registry surfaced by the
// agent-protocol server's "list tools" method.
var toolDescriptors = []ToolDescriptor{
	{Name: "get-booted-sim-id", Description: "Return the resolved booted device's name and udid.",
		InputSchema: schema(map[string]string{"device": "string"}, nil)},
	{Name: "describe", Description: "Describe the accessibility tree: full tree, or the element at (x, y).",
		InputSchema: schema(map[string]string{"device": "string", "x": "number", "y": "number", "depth": "integer", "timeout": "number"}, nil)},
	{Name: "tap", Description: "Tap at (x, y) or at the center of the first element matching a selector.",
		InputSchema: schema(map[string]string{"device": "string", "x": "number", "y": "number", "role": "string", "name": "string", "identifier": "string", "duration": "number"}, nil)},
	{Name: "type", Description: "Type text via the HID keyboard path.",
		InputSchema: schema(map[string]string{"device": "string", "text": "string"}, []string{"text"})},
	{Name: "swipe", Description: "Swipe from (x_start, y_start) to (x_end, y_end).",
		InputSchema: schema(map[string]string{"device": "string", "x_start": "number", "y_start": "number", "x_end": "number", "y_end": "number", "delta": "number", "duration": "number"},
			[]string{"x_start", "y_start", "x_end", "y_end"})},
	{Name: "view", Description: "Capture a screenshot: to output_path if given, else as a base64 JPEG content item.",
		InputSchema: schema(map[string]string{"device": "string", "output_path": "string"}, nil)},
	{Name: "install-app", Description: "Install an .app bundle from a filesystem path.",
		InputSchema: schema(map[string]string{"device": "string", "path": "string"}, []string{"path"})},
	{Name: "launch-app", Description: "Launch an installed app by bundle identifier.",
		InputSchema: schema(map[string]string{"device": "string", "bundle_id": "string", "terminate_existing": "boolean"}, []string{"bundle_id"})},
	{Name: "find", Description: "Return the names of every element matching a selector.",
		InputSchema: selectorSchema()},
	{Name: "exists", Description: "Return \"true\"/\"false\" for whether a selector matches any element.",
		InputSchema: selectorSchema()},
	{Name: "count", Description: "Return the number of elements matching a selector.",
		InputSchema: selectorSchema()},
	{Name: "text", Description: "Return the value or label text of the first element matching a selector.",
		InputSchema: selectorSchema()},
	{Name: "tap-element", Description: "Tap the center of the first element matching a selector.",
		InputSchema: selectorSchema()},
	{Name: "input", Description: "Tap the first element matching a selector, then type text into it.",
		InputSchema: schema(map[string]string{"device": "string", "role": "string", "name": "string", "identifier": "string", "text": "string"}, []string{"text"})},
	{Name: "wait", Description: "Poll until a selector matches or an outer timeout elapses.",
		InputSchema: selectorSchema()},
	{Name: "log-show", Description: "Return up to 500 lines of recent device log output.",
		InputSchema: schema(map[string]string{"device": "string", "predicate": "string", "last_seconds": "number"}, nil)},
	{Name: "log-stream", Description: "Stream device log output for 1-30 seconds, returning up to 500 lines.",
		InputSchema: schema(map[string]string{"device": "string", "predicate": "string", "duration_seconds": "number"}, nil)},
}

func selectorSchema() map[string]interface{} {
	return schema(map[string]string{"device": "string", "role": "string", "name": "string", "identifier": "string", "depth": "integer", "timeout": "number"}, nil)
}

func schema(properties map[string]string, required []string) map[string]interface{} {
	props := make(map[string]interface{}, len(properties))
	for name, typ := range properties {
		props[name] = map[string]interface{}{"type": typ}
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
