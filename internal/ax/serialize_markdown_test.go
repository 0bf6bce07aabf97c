package ax

import (
	"strings"
	"testing"
)

func TestMarkdownLineIncludesCenterAndHalfExtents(t *testing.T) {
	node := &TreeNode{
		Role:  "AXButton",
		Label: "Sign In",
		Frame: &Frame{X: 100, Y: 200, W: 40, H: 20},
	}
	out := Markdown(node)
	if !strings.Contains(out, "(120±20, 210±10)") {
		t.Errorf("Markdown() = %q, want it to contain the center±half-extent clause", out)
	}
	if !strings.Contains(out, `"Sign In"`) {
		t.Errorf("Markdown() = %q, want quoted name", out)
	}
}

func TestMarkdownSkipsEmptyLeaf(t *testing.T) {
	root := &TreeNode{
		Role: "AXGroup",
		Children: []*TreeNode{
			{}, // fully empty, no content, no children: skipped
			{Role: "AXButton", Label: "OK"},
		},
	}
	out := Markdown(root)
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Markdown() = %q, want exactly 2 lines (root + OK button)", out)
	}
}

func TestMarkdownSuppressesRoleRedundantTrait(t *testing.T) {
	node := &TreeNode{Role: "AXHeader", Traits: []string{"header", "selected"}}
	out := Markdown(node)
	if strings.Contains(out, "header") {
		t.Errorf("Markdown() = %q, want role-redundant trait 'header' suppressed", out)
	}
	if !strings.Contains(out, "selected") {
		t.Errorf("Markdown() = %q, want non-redundant trait 'selected' present", out)
	}
}

func TestMarkdownTraitOrderMatchesTraitTable(t *testing.T) {
	node := &TreeNode{Role: "AXGroup", Traits: []string{"toggle", "selected", "link"}}
	out := Markdown(node)
	iSelected := strings.Index(out, "selected")
	iLink := strings.Index(out, "link")
	iToggle := strings.Index(out, "toggle")
	if !(iLink < iSelected && iSelected < iToggle) {
		t.Errorf("Markdown() = %q, want traits in traitTable order (link, selected, toggle)", out)
	}
}

func TestMarkdownUnlabeledRoleFallsBackToQuestionMark(t *testing.T) {
	node := &TreeNode{Children: []*TreeNode{{Role: "AXButton", Label: "x"}}}
	out := Markdown(node)
	if !strings.HasPrefix(out, "?") {
		t.Errorf("Markdown() = %q, want roleless root to render as '?'", out)
	}
}
