//go:build darwin

package native

import "errors"

// Sentinel errors returned by the accessibility-translator entry points.
// The ax package maps these onto its own typed NoTranslationObject /
// NoMacPlatformElement / NoElementAtPoint errors; the last of these
// additionally carries the queried point.
var (
	errNoTranslationObject  = errors.New("native: frontmost-application-with-display-id returned nil")
	errNoMacPlatformElement = errors.New("native: mac-platform-element-from-translation returned nil")
	errNoElementAtPoint     = errors.New("native: object-at-point returned nil")
)

// IsNoTranslationObject reports whether err originated from a nil
// frontmost-application lookup.
func IsNoTranslationObject(err error) bool { return errors.Is(err, errNoTranslationObject) }

// IsNoMacPlatformElement reports whether err originated from a nil
// translation-to-platform-element conversion.
func IsNoMacPlatformElement(err error) bool { return errors.Is(err, errNoMacPlatformElement) }

// IsNoElementAtPoint reports whether err originated from a nil point
// hit-test.
func IsNoElementAtPoint(err error) bool { return errors.Is(err, errNoElementAtPoint) }
