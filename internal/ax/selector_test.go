package ax

import "testing"

func TestNewSelectorRejectsEmpty(t *testing.T) {
	if _, err := NewSelector("", "", ""); err != ErrSelectorEmpty {
		t.Errorf("NewSelector(\"\",\"\",\"\") err = %v, want ErrSelectorEmpty", err)
	}
	if _, err := NewSelector("Button", "", ""); err != nil {
		t.Errorf("NewSelector with role set returned err = %v", err)
	}
}

func TestSelectorMatches(t *testing.T) {
	node := &TreeNode{Role: "AXButton", Label: "Sign In", Identifier: "login.submit"}

	cases := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"role case-insensitive match", Selector{Role: "axbutton"}, true},
		{"role mismatch", Selector{Role: "AXLink"}, false},
		{"name substring in label", Selector{Name: "sign"}, true},
		{"name substring absent from label and title", Selector{Name: "go"}, false},
		{"identifier exact match", Selector{Identifier: "login.submit"}, true},
		{"identifier mismatch", Selector{Identifier: "other"}, false},
		{"conjunctive all match", Selector{Role: "AXButton", Name: "Sign In", Identifier: "login.submit"}, true},
		{"conjunctive one mismatch", Selector{Role: "AXButton", Name: "Sign In", Identifier: "nope"}, false},
	}
	for _, c := range cases {
		if got := c.sel.Matches(node); got != c.want {
			t.Errorf("%s: Matches() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSelectorMatchesTitleFallback(t *testing.T) {
	node := &TreeNode{Role: "AXStaticText", Title: "Continue"}
	sel := Selector{Name: "continue"}
	if !sel.Matches(node) {
		t.Errorf("expected Name selector to match against Title when Label is empty")
	}
}

func TestFindIsIdempotent(t *testing.T) {
	tree := &TreeNode{
		Role: "AXGroup",
		Children: []*TreeNode{
			{Role: "AXButton", Label: "OK"},
			{Role: "AXButton", Label: "Cancel"},
			{Role: "AXGroup", Children: []*TreeNode{
				{Role: "AXButton", Label: "OK"},
			}},
		},
	}
	sel := Selector{Role: "AXButton"}

	first := Find(sel, []*TreeNode{tree}, nil)
	second := Find(sel, first, nil)

	if len(first) != 3 {
		t.Fatalf("Find() returned %d nodes, want 3", len(first))
	}
	if len(second) != len(first) {
		t.Errorf("Find(Find()) returned %d nodes, want %d (idempotence)", len(second), len(first))
	}
}

func TestFindDeduplicatesAndRespectsDepth(t *testing.T) {
	leaf := &TreeNode{Role: "AXButton", Label: "Deep"}
	tree := &TreeNode{
		Role:     "AXGroup",
		Children: []*TreeNode{{Role: "AXGroup", Children: []*TreeNode{leaf}}},
	}
	sel := Selector{Role: "AXButton"}

	depth1 := 1
	if got := Find(sel, []*TreeNode{tree}, &depth1); len(got) != 0 {
		t.Errorf("Find() with maxDepth=1 found %d nodes beyond depth, want 0", len(got))
	}

	unbounded := Find(sel, []*TreeNode{tree}, nil)
	if len(unbounded) != 1 {
		t.Errorf("Find() with unbounded depth found %d nodes, want 1", len(unbounded))
	}
}
