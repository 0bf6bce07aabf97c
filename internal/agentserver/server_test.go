package agentserver

import (
	"testing"

	"github.com/riwsky/iosef/internal/tools"
)

func TestDescriptorToMCPToolCarriesNameAndDescription(t *testing.T) {
	desc := tools.ToolDescriptor{
		Name:        "tap",
		Description: "Tap at (x, y).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x":      map[string]interface{}{"type": "number"},
				"device": map[string]interface{}{"type": "string"},
			},
			"required": []string{"x"},
		},
	}

	got := descriptorToMCPTool(desc)
	if got.Name != "tap" {
		t.Errorf("descriptorToMCPTool().Name = %q, want %q", got.Name, "tap")
	}
	if got.Description != "Tap at (x, y)." {
		t.Errorf("descriptorToMCPTool().Description = %q, want %q", got.Description, "Tap at (x, y).")
	}
}

func TestDescriptorToMCPToolHandlesEmptySchema(t *testing.T) {
	desc := tools.ToolDescriptor{Name: "get-booted-sim-id", Description: "no args"}
	got := descriptorToMCPTool(desc)
	if got.Name != "get-booted-sim-id" {
		t.Errorf("descriptorToMCPTool().Name = %q, want %q", got.Name, "get-booted-sim-id")
	}
}

func TestToMCPResultPreservesErrorFlagAndContentCount(t *testing.T) {
	ok := tools.ToolResult{Content: []tools.ContentItem{tools.TextContent("done")}}
	got := toMCPResult(ok)
	if got.IsError {
		t.Errorf("toMCPResult(ok).IsError = true, want false")
	}
	if len(got.Content) != 1 {
		t.Errorf("toMCPResult(ok) content len = %d, want 1", len(got.Content))
	}

	bad := tools.ToolResult{
		Content: []tools.ContentItem{tools.TextContent("boom")},
		IsError: true,
	}
	got = toMCPResult(bad)
	if !got.IsError {
		t.Errorf("toMCPResult(bad).IsError = false, want true")
	}
}

func TestToMCPResultMapsEachContentType(t *testing.T) {
	result := tools.ToolResult{
		Content: []tools.ContentItem{
			tools.TextContent("hello"),
			tools.ImageContent("base64img", "image/jpeg", nil),
			tools.AudioContent("base64audio", "audio/wav"),
		},
	}
	got := toMCPResult(result)
	if len(got.Content) != 3 {
		t.Fatalf("toMCPResult() content len = %d, want 3", len(got.Content))
	}
}

func TestToMCPResultEmptyContent(t *testing.T) {
	got := toMCPResult(tools.ToolResult{})
	if len(got.Content) != 0 {
		t.Errorf("toMCPResult(empty) content len = %d, want 0", len(got.Content))
	}
}
