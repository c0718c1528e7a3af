package key

import "strings"

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace

	// KeyRune is used for character keys.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeySpace:     "Space",
	KeyRune:      "Rune",
}

// String returns the key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsSpecial reports whether k is a named key rather than a character.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

var namesToKey = map[string]Key{
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"space":     KeySpace,
}

// KeyFromName returns the key with the given name, case-insensitively,
// or KeyNone.
func KeyFromName(name string) Key {
	return namesToKey[strings.ToLower(name)]
}
