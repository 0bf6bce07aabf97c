package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/riwsky/iosef/internal/config"
)

func TestDispatchUnknownToolReturnsErrorResult(t *testing.T) {
	d := New(nil, nil, config.Environment{Timeout: 5 * time.Second})
	result := d.Dispatch(context.Background(), "does-not-exist", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "unknown tool")
}

func TestDispatchFilteredToolReturnsErrorResult(t *testing.T) {
	env := config.Environment{Timeout: 5 * time.Second, FilteredTools: map[string]bool{"tap": true}}
	d := New(nil, nil, env)
	result := d.Dispatch(context.Background(), "tap", map[string]interface{}{"x": 1.0, "y": 2.0})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "filtered")
}

func TestDispatchNilArgsDoesNotPanic(t *testing.T) {
	d := New(nil, nil, config.Environment{Timeout: 5 * time.Second})
	result := d.Dispatch(context.Background(), "unknown-again", nil)
	assert.True(t, result.IsError)
}

func TestDescriptorsExcludesFilteredTools(t *testing.T) {
	env := config.Environment{Timeout: 5 * time.Second, FilteredTools: map[string]bool{"log-stream": true}}
	d := New(nil, nil, env)
	for _, desc := range d.Descriptors() {
		assert.NotEqual(t, "log-stream", desc.Name)
	}
	assert.Less(t, len(d.Descriptors()), len(toolDescriptors))
}

func TestTimeoutUsesArgOverEnvDefault(t *testing.T) {
	d := New(nil, nil, config.Environment{Timeout: 10 * time.Second})
	got := d.timeout(map[string]interface{}{"timeout": 2.5})
	assert.Equal(t, 2500*time.Millisecond, got)

	got = d.timeout(map[string]interface{}{})
	assert.Equal(t, 10*time.Second, got)
}
