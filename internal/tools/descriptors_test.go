package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolDescriptorsHaveUniqueNamesAndSchemas(t *testing.T) {
	seen := make(map[string]bool, len(toolDescriptors))
	for _, desc := range toolDescriptors {
		assert.NotEmpty(t, desc.Name)
		assert.NotEmpty(t, desc.Description)
		assert.False(t, seen[desc.Name], "duplicate tool name %q", desc.Name)
		seen[desc.Name] = true
		assert.Equal(t, "object", desc.InputSchema["type"])
		assert.NotNil(t, desc.InputSchema["properties"])
	}
}

func TestSchemaOmitsRequiredWhenEmpty(t *testing.T) {
	s := schema(map[string]string{"device": "string"}, nil)
	_, hasRequired := s["required"]
	assert.False(t, hasRequired)
}

func TestSchemaIncludesRequired(t *testing.T) {
	s := schema(map[string]string{"text": "string"}, []string{"text"})
	required, ok := s["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"text"}, required)
}

func TestSelectorSchemaIncludesConventionalFields(t *testing.T) {
	s := selectorSchema()
	props, ok := s["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"role", "name", "identifier", "depth", "timeout", "device"} {
		assert.Contains(t, props, key)
	}
}
