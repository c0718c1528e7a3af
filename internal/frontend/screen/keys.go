package screen

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lined/internal/input/key"
)

// convertKey converts a tcell key event to a key.Event. The boolean is
// false for keys the editor has no use for.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return key.NewSpecialEvent(key.KeySpace, mods), true
		}
		if mods.Has(key.ModCtrl) {
			r = unicode.ToLower(r)
		}
		return key.NewRuneEvent(r, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return key.NewRuneEvent(rune('a'+(k-tcell.KeyCtrlA)), mods.With(key.ModCtrl)), true
		}
		return key.Event{}, false
	}
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	return mods
}
