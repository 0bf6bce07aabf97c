package ax

import (
	"encoding/json"
	"testing"
)

func TestMarshalJSONOmitsEmptyFields(t *testing.T) {
	node := &TreeNode{Role: "AXButton", Label: "OK"}
	out, err := MarshalJSON(node)
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode MarshalJSON() output: %v", err)
	}
	for _, absent := range []string{"value", "identifier", "hint", "traits", "frame", "children", "title"} {
		if _, present := decoded[absent]; present {
			t.Errorf("MarshalJSON() output has empty field %q, want omitted", absent)
		}
	}
	if decoded["role"] != "AXButton" || decoded["label"] != "OK" {
		t.Errorf("MarshalJSON() output missing expected role/label: %v", decoded)
	}
}

func TestMarshalJSONPreservesChildrenAndFrame(t *testing.T) {
	root := &TreeNode{
		Role:  "AXGroup",
		Frame: &Frame{X: 1, Y: 2, W: 3, H: 4},
		Children: []*TreeNode{
			{Role: "AXButton", Label: "OK", Traits: []string{"button"}},
		},
	}
	out, err := MarshalJSON(root)
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode MarshalJSON() output: %v", err)
	}
	children, ok := decoded["children"].([]interface{})
	if !ok || len(children) != 1 {
		t.Fatalf("decoded children = %v, want one child", decoded["children"])
	}
	frame, ok := decoded["frame"].(map[string]interface{})
	if !ok || frame["W"] != float64(3) {
		t.Errorf("decoded frame = %v, want W=3", decoded["frame"])
	}
}

func TestMarshalJSONNilRoot(t *testing.T) {
	out, err := MarshalJSON(nil)
	if err != nil {
		t.Fatalf("MarshalJSON(nil) error: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("MarshalJSON(nil) = %q, want \"null\"", out)
	}
}
