package ax

import "testing"

func TestFrameCenterAndHalfExtents(t *testing.T) {
	f := &Frame{X: 10, Y: 20, W: 30, H: 50}
	cx, cy := f.Center()
	if cx != 25 || cy != 45 {
		t.Errorf("Center() = (%d, %d), want (25, 45)", cx, cy)
	}
	hw, hh := f.HalfExtents()
	if hw != 15 || hh != 25 {
		t.Errorf("HalfExtents() = (%d, %d), want (15, 25)", hw, hh)
	}
}

func TestWalkPreOrderAndDepthCap(t *testing.T) {
	root := &TreeNode{
		Role: "root",
		Children: []*TreeNode{
			{Role: "child1", Children: []*TreeNode{{Role: "grandchild"}}},
			{Role: "child2"},
		},
	}

	var visited []string
	Walk(root, nil, func(n *TreeNode, depth int) bool {
		visited = append(visited, n.Role)
		return true
	})
	want := []string{"root", "child1", "grandchild", "child2"}
	if !equalStrings(visited, want) {
		t.Errorf("unbounded Walk visited %v, want %v", visited, want)
	}

	maxDepth := 1
	visited = nil
	Walk(root, &maxDepth, func(n *TreeNode, depth int) bool {
		visited = append(visited, n.Role)
		return true
	})
	want = []string{"root", "child1", "child2"}
	if !equalStrings(visited, want) {
		t.Errorf("depth-capped Walk visited %v, want %v", visited, want)
	}
}

func TestWalkStopsOnFalse(t *testing.T) {
	root := &TreeNode{
		Role: "root",
		Children: []*TreeNode{
			{Role: "child1"},
			{Role: "child2"},
		},
	}
	var visited []string
	Walk(root, nil, func(n *TreeNode, depth int) bool {
		visited = append(visited, n.Role)
		return n.Role != "child1"
	})
	want := []string{"root", "child1"}
	if !equalStrings(visited, want) {
		t.Errorf("Walk after early stop visited %v, want %v", visited, want)
	}
}

func TestRenormalizeMapsRootToFullPointSpace(t *testing.T) {
	root := &TreeNode{
		Frame: &Frame{X: 0, Y: 0, W: 390, H: 844},
		Children: []*TreeNode{
			{Frame: &Frame{X: 195, Y: 422, W: 10, H: 10}},
		},
	}
	renormalize(root, 390, 844)

	if root.Frame.X != 0 || root.Frame.Y != 0 || root.Frame.W != 390 || root.Frame.H != 844 {
		t.Errorf("root frame after renormalize = %+v, want full point space", root.Frame)
	}
	child := root.Children[0].Frame
	if child.X != 195 || child.Y != 422 {
		t.Errorf("child frame after renormalize = %+v, want centered at (195, 422)", child)
	}
}

func TestRenormalizeNoopOnMissingRootFrame(t *testing.T) {
	root := &TreeNode{Children: []*TreeNode{{Frame: &Frame{X: 1, Y: 1, W: 1, H: 1}}}}
	before := *root.Children[0].Frame
	renormalize(root, 390, 844)
	if *root.Children[0].Frame != before {
		t.Errorf("renormalize mutated child frame despite nil root frame")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
