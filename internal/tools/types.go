// Package tools maps a tool name plus a keyed argument bag to one of the
// ~20 canonical handlers, each of which validates its inputs, resolves a
// device via the resource cache, invokes the HID/accessibility core
// primitives, and returns a uniform result record.
package tools

import "fmt"

// ToolCall is a tool name plus a keyed bag of typed argument values.
type ToolCall struct {
	Name string
	Args map[string]interface{}
}

// ContentItem is one entry of a ToolResult's content list: a tagged union
// of text, image, or audio.
type ContentItem struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	Data     string            `json:"data,omitempty"`
	MimeType string            `json:"mime_type,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TextContent builds a text content item.
func TextContent(s string) ContentItem { return ContentItem{Type: "text", Text: s} }

// ImageContent builds a base64-encoded image content item with optional
// metadata.
func ImageContent(base64Data, mimeType string, metadata map[string]string) ContentItem {
	return ContentItem{Type: "image", Data: base64Data, MimeType: mimeType, Metadata: metadata}
}

// AudioContent builds a base64-encoded audio content item.
func AudioContent(base64Data, mimeType string) ContentItem {
	return ContentItem{Type: "audio", Data: base64Data, MimeType: mimeType}
}

// ToolResult is the uniform result every handler returns: an ordered list
// of content items plus an error flag.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"is_error"`
}

func textResult(s string) ToolResult {
	return ToolResult{Content: []ContentItem{TextContent(s)}}
}

func errorResult(err error) ToolResult {
	return ToolResult{Content: []ContentItem{TextContent(err.Error())}, IsError: true}
}

// ToolDescriptor describes one registered tool for the "list tools"
// agent-protocol method.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// MissingRequiredArgument is raised when a handler's required argument is
// absent.
type MissingRequiredArgument struct {
	Name string
}

func (e *MissingRequiredArgument) Error() string {
	return fmt.Sprintf("tools: missing required argument %q", e.Name)
}

// ConflictingFilters is raised when mutually-exclusive argument groups are
// both present, or both absent when exactly one is required.
type ConflictingFilters struct {
	Detail string
}

func (e *ConflictingFilters) Error() string {
	return fmt.Sprintf("tools: conflicting arguments: %s", e.Detail)
}

// EncodingFailed is raised when a result value (e.g. a screenshot) cannot
// be encoded for transport.
type EncodingFailed struct {
	Detail string
}

func (e *EncodingFailed) Error() string {
	return fmt.Sprintf("tools: encoding failed: %s", e.Detail)
}

// NoMatch is raised when a selector-based query expected at least one
// match and found none in a context where that is an error (e.g. tap,
// wait) rather than a reportable boolean (exists).
type NoMatch struct {
	Role, Name, Identifier string
}

func (e *NoMatch) Error() string {
	return fmt.Sprintf("tools: no element matched selector{role=%q, name=%q, identifier=%q}", e.Role, e.Name, e.Identifier)
}

// NoFrame is raised when a selector matched a node that carries no frame,
// so its center cannot be computed for a tap.
type NoFrame struct {
	Role, Name, Identifier string
}

func (e *NoFrame) Error() string {
	return fmt.Sprintf("tools: matched selector{role=%q, name=%q, identifier=%q} has no frame", e.Role, e.Name, e.Identifier)
}
