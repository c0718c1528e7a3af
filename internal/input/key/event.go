package key

import (
	"strings"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent creates an event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates an event for a named key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e is a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports whether e types a printable character: a rune or Space
// with no Ctrl or Alt held.
func (e Event) IsChar() bool {
	if e.Modifiers.Has(ModCtrl) || e.Modifiers.Has(ModAlt) {
		return false
	}
	if e.Key == KeySpace {
		return true
	}
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// Char returns the character e types, if IsChar.
func (e Event) Char() rune {
	if e.Key == KeySpace {
		return ' '
	}
	return e.Rune
}

// IsCtrl reports whether e is Ctrl held with the letter r.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Modifiers.Has(ModCtrl) && unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// String returns the Vim-style hyphenated form, e.g. "a", "C-c", "Esc".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if e.Modifiers.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if e.Modifiers.Has(ModShift) && !e.IsRune() {
		parts = append(parts, "S")
	}

	if e.Key == KeyRune {
		parts = append(parts, string(e.Rune))
	} else {
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "-")
}
