package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/lined/internal/engine/rope"
)

// Reduce applies one action to a state and returns the next state.
// Pairs of mode and action that have no transition return the state as is.
func Reduce(s State, a Action) State {
	s.Rejected = false

	switch s.Mode.Kind {
	case ModeNormal:
		return reduceNormal(s, a)
	case ModeCommand:
		return reduceCommand(s, a)
	case ModeInput:
		return reduceInput(s, a)
	case ModeConfirmExit:
		return reduceConfirmExit(s, a)
	default:
		return s
	}
}

func reduceNormal(s State, a Action) State {
	switch a := a.(type) {
	case StartAppendingInput:
		return startAppending(s, a.Line)
	case StartInsertingInput:
		s.Pending = PendingInput{}
		s.Mode = Input()
	case ChangeToCommandMode:
		s.Mode = Command("")
	case SetLineNumber:
		return setLine(s, a.Line)
	case RequestExit:
		s.Mode = ConfirmExit()
	}
	return s
}

func reduceCommand(s State, a Action) State {
	switch a := a.(type) {
	case AddChar:
		s.Mode = Command(s.Mode.Command + string(a.Char))
	case Quit:
		s.Mode = Exit()
	case ChangeToNormalMode:
		s.Mode = Normal()
	case StartAppendingInput:
		return startAppending(s, a.Line)
	case SetLineNumber:
		return setLine(s, a.Line)
	case RequestExit:
		s.Mode = ConfirmExit()
	}
	return s
}

func reduceInput(s State, a Action) State {
	switch a := a.(type) {
	case AddChar:
		s.Pending.Text += string(a.Char)
		s.Pending.Whole = false
		if a.Char == '\n' {
			s.Pending.Lines++
		}
	case Enter:
		s.Pending.Text += "\n"
		s.Pending.Whole = false
		s.Pending.Lines++
	case AddInputLine:
		if s.Pending.IsEmpty() {
			s.Pending.Whole = true
		}
		s.Pending.Text += a.Line + "\n"
		s.Pending.Lines += uint32(strings.Count(a.Line, "\n")) + 1
	case ChangeToNormalMode:
		s = flushPending(s)
		s.Mode = Normal()
	case ChangeToCommandMode:
		s = flushPending(s)
		s.Mode = Command("")
	}
	return s
}

func reduceConfirmExit(s State, a Action) State {
	switch a.(type) {
	case Quit:
		s.Mode = Exit()
	case ChangeToNormalMode:
		s.Mode = Normal()
	case ChangeToCommandMode:
		s.Mode = Command("")
	}
	return s
}

// startAppending enters Input mode at the end of line n.
func startAppending(s State, n LineNumber) State {
	line := uint32(n)
	if line >= s.Doc.LineCount() {
		s.Rejected = true
		return s
	}
	s.Cursor = Cursor{Line: line, Column: s.Doc.LineLen(line)}
	s.Pending = PendingInput{Append: true}
	s.Mode = Input()
	return s
}

func setLine(s State, n LineNumber) State {
	line := uint32(n)
	if line >= s.Doc.LineCount() {
		s.Rejected = true
		return s
	}
	s.Cursor = Cursor{Line: line}
	return s
}

// flushPending inserts the pending input. Whole lines entered after
// StartAppendingInput become new lines after the cursor line; anything else
// is inserted at the cursor.
func flushPending(s State) State {
	if s.Pending.IsEmpty() {
		return s
	}

	if s.Pending.Append && s.Pending.Whole {
		s = insertLinesAfter(s, s.Cursor.Line, s.Pending.Text)
	} else {
		s = insertAtCursor(s, s.Pending.Text)
	}
	s.Pending = PendingInput{}
	return s
}

// insertAtCursor inserts text at the cursor and moves the cursor past it.
func insertAtCursor(s State, text string) State {
	column := min(s.Cursor.Column, s.Doc.LineLen(s.Cursor.Line))
	at := s.Doc.LineToChar(s.Cursor.Line) + rope.CharOffset(column)
	s.Doc = s.Doc.Insert(at, text)

	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		s.Cursor.Line += uint32(strings.Count(text, "\n"))
		s.Cursor.Column = uint32(utf8.RuneCountInString(text[i+1:]))
	} else {
		s.Cursor.Column = column + uint32(utf8.RuneCountInString(text))
	}
	return s
}

// insertLinesAfter inserts text, a run of newline-terminated lines, after
// line n. An empty last line is filled instead of followed. The cursor is
// left at the end of the last inserted line.
func insertLinesAfter(s State, n uint32, text string) State {
	count := uint32(strings.Count(text, "\n"))
	last := s.Doc.LineCount() - 1

	first := n + 1
	switch {
	case n < last:
		s.Doc = s.Doc.Insert(s.Doc.LineToChar(first), text)
	case s.Doc.LineLen(n) == 0:
		first = n
		s.Doc = s.Doc.Append(text)
	default:
		s.Doc = s.Doc.Append("\n" + strings.TrimSuffix(text, "\n"))
	}

	line := first + count - 1
	s.Cursor = Cursor{Line: line, Column: s.Doc.LineLen(line)}
	return s
}
