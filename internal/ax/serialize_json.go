package ax

import "encoding/json"

// jsonNode mirrors TreeNode with omitempty tags so absent/empty fields are
// dropped, and alphabetically-ordered field tags so json.MarshalIndent's
// natural struct-field order already matches sorted-key output.
type jsonNode struct {
	Children   []*jsonNode `json:"children,omitempty"`
	Frame      *Frame      `json:"frame,omitempty"`
	Hint       string      `json:"hint,omitempty"`
	Identifier string      `json:"identifier,omitempty"`
	Label      string      `json:"label,omitempty"`
	Role       string      `json:"role,omitempty"`
	Title      string      `json:"title,omitempty"`
	Traits     []string    `json:"traits,omitempty"`
	Value      string      `json:"value,omitempty"`
}

func toJSONNode(n *TreeNode) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Role:       n.Role,
		Label:      n.Label,
		Title:      n.Title,
		Value:      n.Value,
		Identifier: n.Identifier,
		Hint:       n.Hint,
		Traits:     n.Traits,
		Frame:      n.Frame,
	}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(c))
	}
	return jn
}

// MarshalJSON renders the full tree graph, pretty-printed, omitting
// absent/empty fields.
func MarshalJSON(root *TreeNode) ([]byte, error) {
	return json.MarshalIndent(toJSONNode(root), "", "  ")
}
