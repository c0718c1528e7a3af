package input

import (
	"regexp"
	"strings"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/input/key"
)

// Request is one dispatch: an optional action and an optional effect.
type Request struct {
	Action editor.Action
	Effect editor.Effect
}

func (r Request) String() string {
	switch {
	case r.Action == nil:
		return r.Effect.String()
	case r.Effect == editor.EffectNone:
		return r.Action.String()
	default:
		return r.Action.String() + "+" + r.Effect.String()
	}
}

var (
	appendCommand = regexp.MustCompile(`^(\d+)?a$`)
	printCommand  = regexp.MustCompile(`^(\d+)?p$`)
	lineCommand   = regexp.MustCompile(`^\d+$`)
)

// MapLine maps one line of input. A trailing newline is ignored. The
// boolean is false when the line is not a command the editor understands;
// no requests are returned in that case.
func MapLine(s editor.State, line string) ([]Request, bool) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch s.Mode.Kind {
	case editor.ModeInput:
		if line == "." {
			return []Request{{Action: editor.ChangeToCommandMode{}}}, true
		}
		return []Request{{Action: editor.AddInputLine{Line: line}}}, true

	case editor.ModeConfirmExit:
		if isQuit(strings.TrimSpace(line)) || strings.TrimSpace(line) == "y" {
			return []Request{{Action: editor.Quit{}}}, true
		}
		return []Request{{Action: editor.ChangeToCommandMode{}}}, true

	case editor.ModeNormal:
		// Quit is only accepted in Command mode.
		cmd := strings.TrimSpace(line)
		if isQuit(cmd) {
			return []Request{{Action: editor.ChangeToCommandMode{}}, {Action: editor.Quit{}}}, true
		}
		return mapCommand(s, cmd)

	case editor.ModeCommand:
		return mapCommand(s, strings.TrimSpace(line))

	default:
		return nil, false
	}
}

// mapCommand parses command text. An empty command is accepted and does
// nothing.
func mapCommand(s editor.State, cmd string) ([]Request, bool) {
	if cmd == "" {
		return nil, true
	}
	if isQuit(cmd) {
		return []Request{{Action: editor.Quit{}}}, true
	}
	if cmd == ",p" {
		return []Request{{Effect: editor.EffectPrint}}, true
	}

	if m := appendCommand.FindStringSubmatch(cmd); m != nil {
		n, ok := lineArg(s, m[1])
		if !ok {
			return nil, false
		}
		return []Request{{Action: editor.StartAppendingInput{Line: n}}}, true
	}
	if m := printCommand.FindStringSubmatch(cmd); m != nil {
		n, ok := lineArg(s, m[1])
		if !ok {
			return nil, false
		}
		return []Request{{Action: editor.SetLineNumber{Line: n}, Effect: editor.EffectPrintLine}}, true
	}
	if lineCommand.MatchString(cmd) {
		n, ok := lineArg(s, cmd)
		if !ok {
			return nil, false
		}
		return []Request{{Action: editor.SetLineNumber{Line: n}}}, true
	}
	return nil, false
}

// lineArg parses an optional line number, defaulting to the cursor line.
func lineArg(s editor.State, digits string) (editor.LineNumber, bool) {
	if digits == "" {
		return s.CurrentLine(), true
	}
	n, err := editor.ParseLineNumber(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isQuit(cmd string) bool {
	return cmd == "q" || cmd == "q!"
}

// MapKey maps one key press. The boolean is false when the key completed
// a command the editor does not understand.
func MapKey(s editor.State, ev key.Event) ([]Request, bool) {
	switch s.Mode.Kind {
	case editor.ModeNormal:
		return mapNormalKey(s, ev), true
	case editor.ModeCommand:
		return mapCommandKey(s, ev)
	case editor.ModeInput:
		return mapInputKey(ev), true
	case editor.ModeConfirmExit:
		if ev.IsChar() && (ev.Char() == 'y' || ev.Char() == 'q') {
			return []Request{{Action: editor.Quit{}}}, true
		}
		return []Request{{Action: editor.ChangeToNormalMode{}}}, true
	default:
		return nil, true
	}
}

func isExitKey(ev key.Event) bool {
	return ev.IsCtrl('c') || ev.IsCtrl('d')
}

func mapNormalKey(s editor.State, ev key.Event) []Request {
	if isExitKey(ev) {
		return []Request{{Action: editor.RequestExit{}}}
	}
	if !ev.IsChar() {
		return nil
	}
	switch ev.Char() {
	case 'a':
		return []Request{{Action: editor.StartAppendingInput{Line: s.CurrentLine()}}}
	case 'i':
		return []Request{{Action: editor.StartInsertingInput{}}}
	case ':':
		return []Request{{Action: editor.ChangeToCommandMode{}}}
	}
	return nil
}

func mapCommandKey(s editor.State, ev key.Event) ([]Request, bool) {
	switch {
	case isExitKey(ev):
		return []Request{{Action: editor.RequestExit{}}}, true
	case ev.Key == key.KeyEscape:
		return []Request{{Action: editor.ChangeToNormalMode{}}}, true
	case ev.Key == key.KeyEnter:
		return submitCommand(s)
	case ev.IsChar():
		return []Request{{Action: editor.AddChar{Char: ev.Char()}}}, true
	}
	return nil, true
}

// submitCommand leaves Command mode and runs the typed command text from
// Normal mode. Quit is the only command that must run in Command mode.
func submitCommand(s editor.State) ([]Request, bool) {
	leave := Request{Action: editor.ChangeToNormalMode{}}

	reqs, ok := mapCommand(s, strings.TrimSpace(s.Mode.Command))
	if !ok {
		return []Request{leave}, false
	}
	if len(reqs) == 1 {
		if _, quit := reqs[0].Action.(editor.Quit); quit {
			return reqs, true
		}
	}
	return append([]Request{leave}, reqs...), true
}

func mapInputKey(ev key.Event) []Request {
	switch {
	case ev.Key == key.KeyEnter:
		return []Request{{Action: editor.Enter{}}}
	case ev.Key == key.KeyEscape:
		return []Request{{Action: editor.ChangeToNormalMode{}}}
	case ev.IsChar():
		return []Request{{Action: editor.AddChar{Char: ev.Char()}}}
	}
	return nil
}
