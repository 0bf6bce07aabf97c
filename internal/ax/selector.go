package ax

import (
	"errors"
	"strings"
)

// ErrSelectorEmpty is raised at query construction time when a selector has
// every field absent.
var ErrSelectorEmpty = errors.New("selector: at least one of role, name, identifier must be set")

// Selector is a conjunctive query over tree nodes: every provided field
// must match for a node to be selected.
type Selector struct {
	Role       string
	Name       string
	Identifier string
}

// Empty reports whether every field is unset.
func (s Selector) Empty() bool {
	return s.Role == "" && s.Name == "" && s.Identifier == ""
}

// NewSelector validates and constructs a Selector, returning
// ErrSelectorEmpty if every field is absent.
func NewSelector(role, name, identifier string) (Selector, error) {
	s := Selector{Role: role, Name: name, Identifier: identifier}
	if s.Empty() {
		return Selector{}, ErrSelectorEmpty
	}
	return s, nil
}

// Matches reports whether node satisfies every provided field of s. Role is
// exact case-insensitive; Name is substring-matched case-insensitively
// against label OR title; Identifier is exact.
func (s Selector) Matches(n *TreeNode) bool {
	if s.Role != "" && !strings.EqualFold(s.Role, n.Role) {
		return false
	}
	if s.Name != "" {
		needle := strings.ToLower(s.Name)
		label := strings.ToLower(n.Label)
		title := strings.ToLower(n.Title)
		if !strings.Contains(label, needle) && !strings.Contains(title, needle) {
			return false
		}
	}
	if s.Identifier != "" && s.Identifier != n.Identifier {
		return false
	}
	return true
}

// Find performs a pre-order traversal of nodes (a forest — typically a
// single root), collecting every node matching s, descending into children
// until the optional maxDepth. The result is pure: re-running Find(s,
// Find(s, nodes)) returns the same set (idempotence) when maxDepth is nil,
// since any match found under a matched node is already in the first
// result, and the seen set
// drops the repeats that a second traversal of overlapping subtrees yields.
func Find(s Selector, nodes []*TreeNode, maxDepth *int) []*TreeNode {
	seen := make(map[*TreeNode]bool)
	var out []*TreeNode
	for _, root := range nodes {
		Walk(root, maxDepth, func(n *TreeNode, depth int) bool {
			if s.Matches(n) && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
			return true
		})
	}
	return out
}
