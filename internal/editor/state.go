package editor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dshills/lined/internal/engine/rope"
)

// ErrInvalidLineNumber is returned when text is not a line number.
var ErrInvalidLineNumber = errors.New("invalid line number")

// LineNumber is a 0-indexed line of the document.
type LineNumber uint32

// ParseLineNumber parses a non-negative decimal line number.
func ParseLineNumber(s string) (LineNumber, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLineNumber, s)
	}
	return LineNumber(n), nil
}

func (n LineNumber) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// Cursor is the next insertion point. Column counts characters.
type Cursor struct {
	Line   uint32
	Column uint32
}

// PendingInput is text typed in Input mode that has not been inserted yet.
type PendingInput struct {
	Text  string
	Lines uint32

	// Append is set when input was started by StartAppendingInput.
	Append bool
	// Whole is set while Text consists only of AddInputLine lines.
	Whole bool
}

// IsEmpty reports whether there is nothing to insert.
func (p PendingInput) IsEmpty() bool {
	return p.Text == ""
}

// State is the whole editor state. It is a value: copies share the
// immutable rope and are safe to hand to other goroutines.
type State struct {
	Mode    Mode
	Cursor  Cursor
	Doc     rope.Rope
	Pending PendingInput

	// Rejected is set when the last applied action addressed a line past
	// the end of the document and was refused.
	Rejected bool
}

// NewState returns the initial state of an interactive session.
func NewState() State {
	return State{Mode: Normal(), Doc: rope.New()}
}

// NewCommandState returns an initial state that starts in Command mode,
// for purely line-oriented sessions.
func NewCommandState() State {
	return State{Mode: Command(""), Doc: rope.New()}
}

// LineCount returns the number of lines in the document.
func (s State) LineCount() uint32 {
	return s.Doc.LineCount()
}

// Text returns the document content.
func (s State) Text() string {
	return s.Doc.String()
}

// CurrentLine returns the cursor line as a LineNumber.
func (s State) CurrentLine() LineNumber {
	return LineNumber(s.Cursor.Line)
}

// IsExit reports whether the session has ended.
func (s State) IsExit() bool {
	return s.Mode.Kind == ModeExit
}

func (s State) String() string {
	return fmt.Sprintf("State{mode=%s cursor=%d:%d lines=%d pending=%d rejected=%t}",
		s.Mode, s.Cursor.Line, s.Cursor.Column, s.LineCount(), len(s.Pending.Text), s.Rejected)
}
