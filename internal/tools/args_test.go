package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStringPresentAndAbsent(t *testing.T) {
	args := map[string]interface{}{"role": "AXButton", "wrong_type": 5}
	assert.Equal(t, "AXButton", getString(args, "role", "default"))
	assert.Equal(t, "default", getString(args, "missing", "default"))
	assert.Equal(t, "default", getString(args, "wrong_type", "default"))
}

func TestGetFloatAcceptsIntAndFloat64(t *testing.T) {
	args := map[string]interface{}{"x": 1.5, "y": 3}
	assert.Equal(t, 1.5, getFloat(args, "x", 0))
	assert.Equal(t, float64(3), getFloat(args, "y", 0))
	assert.Equal(t, float64(9), getFloat(args, "missing", 9))
}

func TestGetFloatPtrDistinguishesAbsentFromZero(t *testing.T) {
	args := map[string]interface{}{"timeout": 0.0}
	assert.NotNil(t, getFloatPtr(args, "timeout"))
	assert.Equal(t, 0.0, *getFloatPtr(args, "timeout"))
	assert.Nil(t, getFloatPtr(args, "missing"))
}

func TestGetIntTruncatesFloat(t *testing.T) {
	args := map[string]interface{}{"depth": 3.9}
	assert.Equal(t, 3, getInt(args, "depth", 0))
	assert.Equal(t, 7, getInt(args, "missing", 7))
}

func TestGetBoolPresentAndAbsent(t *testing.T) {
	args := map[string]interface{}{"terminate_existing": true, "wrong_type": "true"}
	assert.True(t, getBool(args, "terminate_existing", false))
	assert.False(t, getBool(args, "missing", false))
	assert.False(t, getBool(args, "wrong_type", false))
}

func TestHasKeyDistinguishesAbsentFromZeroValue(t *testing.T) {
	args := map[string]interface{}{"depth": 0}
	assert.True(t, hasKey(args, "depth"))
	assert.False(t, hasKey(args, "missing"))
}

func TestBuildSelectorRequiresAtLeastOneField(t *testing.T) {
	_, err := buildSelector(map[string]interface{}{})
	assert.Error(t, err)

	sel, err := buildSelector(map[string]interface{}{"role": "AXButton", "name": "OK"})
	assert.NoError(t, err)
	assert.Equal(t, "AXButton", sel.Role)
	assert.Equal(t, "OK", sel.Name)
}
