package script

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/input"
	"github.com/dshills/lined/internal/input/key"
	"github.com/dshills/lined/internal/logging"
)

// Target is the editor a script drives.
type Target interface {
	Dispatch(ctx context.Context, action editor.Action, effect editor.Effect) error
	Flush(ctx context.Context) error
	State() editor.State
}

// Engine owns a Lua state bound to a Target.
//
// gopher-lua states are not goroutine-safe; the engine serializes runs.
type Engine struct {
	mu     sync.Mutex
	L      *lua.LState
	target Target
	log    *logging.Logger
	ctx    context.Context
	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine driving target.
func New(target Target, opts ...Option) *Engine {
	e := &Engine{
		target: target,
		log:    logging.Nop(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("script")

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.L.SetGlobal("lined", e.L.SetFuncs(e.L.NewTable(), e.api()))
	return e
}

// openSafeLibraries opens only libraries without file, process or module
// loading access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// RunFile runs the Lua file at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	return e.run(ctx, path, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunString runs Lua source code.
func (e *Engine) RunString(ctx context.Context, code string) error {
	return e.run(ctx, "<string>", func(L *lua.LState) error { return L.DoString(code) })
}

func (e *Engine) run(ctx context.Context, source string, fn func(*lua.LState) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	e.ctx = ctx
	e.L.SetContext(ctx)
	defer func() {
		e.L.RemoveContext()
		e.ctx = context.Background()
	}()

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Source: source, Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	e.log.Debug("running %s", source)
	if err := fn(e.L); err != nil {
		return &Error{Source: source, Err: err}
	}
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}

func (e *Engine) api() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"exec":      e.exec,
		"input":     e.input,
		"char":      e.char,
		"keys":      e.keys,
		"enter":     e.simple(editor.Enter{}),
		"append":    e.appendAt,
		"normal":    e.simple(editor.ChangeToNormalMode{}),
		"command":   e.simple(editor.ChangeToCommandMode{}),
		"print":     e.print,
		"printline": e.printLine,
		"quit":      e.quit,
		"mode":      e.mode,
		"lines":     e.lines,
		"text":      e.text,
		"cursor":    e.cursor,
	}
}

func (e *Engine) dispatch(L *lua.LState, reqs ...input.Request) {
	for _, r := range reqs {
		if err := e.target.Dispatch(e.ctx, r.Action, r.Effect); err != nil {
			L.RaiseError("dispatch %v: %v", r, err)
		}
	}
}

// current waits for earlier dispatches and returns the state.
func (e *Engine) current(L *lua.LState) editor.State {
	if err := e.target.Flush(e.ctx); err != nil {
		L.RaiseError("flush: %v", err)
	}
	return e.target.State()
}

func (e *Engine) simple(a editor.Action) lua.LGFunction {
	return func(L *lua.LState) int {
		e.dispatch(L, input.Request{Action: a})
		return 0
	}
}

// exec(line) -> bool
func (e *Engine) exec(L *lua.LState) int {
	line := L.CheckString(1)
	reqs, ok := input.MapLine(e.current(L), line)
	e.dispatch(L, reqs...)
	L.Push(lua.LBool(ok))
	return 1
}

// input(line)
func (e *Engine) input(L *lua.LState) int {
	e.dispatch(L, input.Request{Action: editor.AddInputLine{Line: L.CheckString(1)}})
	return 0
}

// char(s)
func (e *Engine) char(L *lua.LState) int {
	for _, r := range L.CheckString(1) {
		e.dispatch(L, input.Request{Action: editor.AddChar{Char: r}})
	}
	return 0
}

// keys(spec) -> bool
func (e *Engine) keys(L *lua.LState) int {
	events, err := key.ParseAll(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	ok := true
	for _, ev := range events {
		reqs, understood := input.MapKey(e.current(L), ev)
		ok = ok && understood
		e.dispatch(L, reqs...)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// append([n])
func (e *Engine) appendAt(L *lua.LState) int {
	var line editor.LineNumber
	if L.GetTop() >= 1 {
		line = checkLine(L, 1)
	} else {
		line = e.current(L).CurrentLine()
	}
	e.dispatch(L, input.Request{Action: editor.StartAppendingInput{Line: line}})
	return 0
}

// print()
func (e *Engine) print(L *lua.LState) int {
	e.dispatch(L, input.Request{Effect: editor.EffectPrint})
	return 0
}

// printline(n)
func (e *Engine) printLine(L *lua.LState) int {
	line := checkLine(L, 1)
	e.dispatch(L, input.Request{Action: editor.SetLineNumber{Line: line}, Effect: editor.EffectPrintLine})
	return 0
}

// quit() ends the session from any mode, inserting pending input first.
func (e *Engine) quit(L *lua.LState) int {
	e.dispatch(L,
		input.Request{Action: editor.ChangeToCommandMode{}},
		input.Request{Action: editor.Quit{}},
	)
	return 0
}

// mode() -> string
func (e *Engine) mode(L *lua.LState) int {
	L.Push(lua.LString(e.current(L).Mode.Kind.String()))
	return 1
}

// lines() -> number
func (e *Engine) lines(L *lua.LState) int {
	L.Push(lua.LNumber(e.current(L).LineCount()))
	return 1
}

// text() -> string
func (e *Engine) text(L *lua.LState) int {
	L.Push(lua.LString(e.current(L).Text()))
	return 1
}

// cursor() -> line, column
func (e *Engine) cursor(L *lua.LState) int {
	c := e.current(L).Cursor
	L.Push(lua.LNumber(c.Line))
	L.Push(lua.LNumber(c.Column))
	return 2
}

func checkLine(L *lua.LState, n int) editor.LineNumber {
	v := L.CheckInt64(n)
	if v < 0 || v > int64(^uint32(0)) {
		L.ArgError(n, "line number out of range")
		return 0
	}
	return editor.LineNumber(v)
}
