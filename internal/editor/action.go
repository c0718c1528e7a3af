package editor

import (
	"fmt"
	"strconv"
)

// Action is a request to change the editor state. The set of actions is
// closed; every implementation lives in this file. All actions are
// comparable values so they can travel through the store by value.
type Action interface {
	fmt.Stringer
	isAction()
}

// AddChar types one character.
type AddChar struct{ Char rune }

// AddInputLine adds a whole line of input text.
type AddInputLine struct{ Line string }

// Enter breaks the current input line.
type Enter struct{}

// StartInsertingInput enters Input mode at the cursor.
type StartInsertingInput struct{}

// StartAppendingInput enters Input mode at the end of Line.
type StartAppendingInput struct{ Line LineNumber }

// ChangeToNormalMode returns to Normal mode.
type ChangeToNormalMode struct{}

// ChangeToCommandMode enters Command mode with empty command text.
type ChangeToCommandMode struct{}

// Quit ends the session.
type Quit struct{}

// SetLineNumber moves the cursor to the start of Line.
type SetLineNumber struct{ Line LineNumber }

// RequestExit asks for confirmation before quitting.
type RequestExit struct{}

func (AddChar) isAction()             {}
func (AddInputLine) isAction()        {}
func (Enter) isAction()               {}
func (StartInsertingInput) isAction() {}
func (StartAppendingInput) isAction() {}
func (ChangeToNormalMode) isAction()  {}
func (ChangeToCommandMode) isAction() {}
func (Quit) isAction()                {}
func (SetLineNumber) isAction()       {}
func (RequestExit) isAction()         {}

func (a AddChar) String() string             { return "AddChar(" + strconv.QuoteRune(a.Char) + ")" }
func (a AddInputLine) String() string        { return "AddInputLine(" + strconv.Quote(a.Line) + ")" }
func (Enter) String() string                 { return "Enter" }
func (StartInsertingInput) String() string   { return "StartInsertingInput" }
func (a StartAppendingInput) String() string { return "StartAppendingInput(" + a.Line.String() + ")" }
func (ChangeToNormalMode) String() string    { return "ChangeToNormalMode" }
func (ChangeToCommandMode) String() string   { return "ChangeToCommandMode" }
func (Quit) String() string                  { return "Quit" }
func (a SetLineNumber) String() string       { return "SetLineNumber(" + a.Line.String() + ")" }
func (RequestExit) String() string           { return "RequestExit" }
