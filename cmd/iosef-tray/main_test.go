package main

import (
	"testing"

	"github.com/riwsky/iosef/internal/tools"
)

func TestTextOfJoinsNonEmptyTextItems(t *testing.T) {
	result := tools.ToolResult{
		Content: []tools.ContentItem{
			tools.TextContent("AXGroup"),
			tools.ImageContent("base64", "image/jpeg", nil),
			tools.TextContent("AXButton \"OK\""),
		},
	}
	got := textOf(result)
	want := "AXGroup\nAXButton \"OK\""
	if got != want {
		t.Errorf("textOf() = %q, want %q", got, want)
	}
}

func TestTextOfEmptyResult(t *testing.T) {
	if got := textOf(tools.ToolResult{}); got != "" {
		t.Errorf("textOf(empty) = %q, want empty string", got)
	}
}
