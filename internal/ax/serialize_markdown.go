package ax

import (
	"fmt"
	"strings"
)

// markdownTraitOrder fixes the order notable traits are listed in, matching
// traitTable's bit-position order rather than map iteration order.
var markdownTraitOrder = func() []string {
	var order []string
	for _, t := range traitTable {
		if notableTraits[t] {
			order = append(order, t)
		}
	}
	return order
}()

// roleRedundantTrait suppresses a trait when it duplicates information the
// role clause already carries, e.g. a node with role "AXButton" need not
// also print the "button" trait (not one of the notable traits anyway, but
// the same logic extends to role/trait name collisions in general).
func roleRedundantTrait(role, trait string) bool {
	return strings.EqualFold(strings.TrimPrefix(role, "AX"), trait)
}

// Markdown renders the tree rooted at n as one indented line per
// content-bearing node, skipping fully empty nodes with no children.
func Markdown(n *TreeNode) string {
	var b strings.Builder
	writeMarkdown(&b, n, 0)
	return b.String()
}

func writeMarkdown(b *strings.Builder, n *TreeNode, depth int) {
	if n == nil {
		return
	}
	if hasContent(n) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(markdownLine(n))
		b.WriteByte('\n')
	}
	for _, c := range n.Children {
		writeMarkdown(b, c, depth+1)
	}
}

// hasContent reports whether a node carries anything worth a line: any
// non-empty field (role, label, title, value, identifier, hint, traits or
// frame), or any children (a node with children but no fields still gets a
// line so indentation stays legible).
func hasContent(n *TreeNode) bool {
	if n.Role != "" || n.Label != "" || n.Title != "" || n.Value != "" ||
		n.Identifier != "" || n.Hint != "" || len(n.Traits) > 0 || n.Frame != nil {
		return true
	}
	return len(n.Children) > 0
}

func markdownLine(n *TreeNode) string {
	var b strings.Builder
	role := n.Role
	if role == "" {
		role = "?"
	}
	b.WriteString(role)

	name := n.Label
	if name == "" {
		name = n.Title
	}
	if name != "" {
		fmt.Fprintf(&b, " %q", name)
	}

	if n.Frame != nil {
		cx, cy := n.Frame.Center()
		hw, hh := n.Frame.HalfExtents()
		fmt.Fprintf(&b, " (%d±%d, %d±%d)", cx, hw, cy, hh)
	}

	if n.Value != "" {
		fmt.Fprintf(&b, " value=%q", n.Value)
	}

	var traits []string
	present := make(map[string]bool, len(n.Traits))
	for _, t := range n.Traits {
		present[t] = true
	}
	for _, t := range markdownTraitOrder {
		if present[t] && !roleRedundantTrait(n.Role, t) {
			traits = append(traits, t)
		}
	}
	if len(traits) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(traits, ", "))
	}

	return b.String()
}
