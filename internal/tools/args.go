package tools

import (
	"github.com/riwsky/iosef/internal/ax"
)

// getString reads a string-valued argument, returning def if absent or of
// the wrong type.
func getString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// getFloat reads a numeric argument (accepting both float64 and int, since
// JSON-decoded numbers and programmatically-built args may differ), falling
// back to def.
func getFloat(args map[string]interface{}, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// getFloatPtr returns nil if the key is absent, otherwise a pointer to its
// numeric value.
func getFloatPtr(args map[string]interface{}, key string) *float64 {
	if _, ok := args[key]; !ok {
		return nil
	}
	v := getFloat(args, key, 0)
	return &v
}

// getInt reads an integer-valued argument, falling back to def.
func getInt(args map[string]interface{}, key string, def int) int {
	return int(getFloat(args, key, float64(def)))
}

// getBool reads a boolean argument, falling back to def.
func getBool(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// hasKey reports whether key is present in args at all, distinguishing
// "absent" from "present with zero value".
func hasKey(args map[string]interface{}, key string) bool {
	_, ok := args[key]
	return ok
}

// buildSelector constructs a Selector from the conventional role/name/
// identifier argument keys.
func buildSelector(args map[string]interface{}) (ax.Selector, error) {
	role := getString(args, "role", "")
	name := getString(args, "name", "")
	identifier := getString(args, "identifier", "")
	return ax.NewSelector(role, name, identifier)
}
