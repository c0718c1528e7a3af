package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key.
	ModAlt
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// ModifierFromName returns the modifier for a name such as "ctrl" or "c".
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(name) {
	case "shift", "s":
		return ModShift
	case "ctrl", "control", "c":
		return ModCtrl
	case "alt", "option", "a", "m", "meta":
		return ModAlt
	default:
		return ModNone
	}
}
