package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/effect"
	"github.com/dshills/lined/internal/store"
)

type editorStore = store.Store[editor.State, editor.Action, editor.Effect]

// output is written by effect goroutines and read by the test.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}

// waitFor polls until the output equals want.
func (o *output) waitFor(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for o.String() != want && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := o.String(); got != want {
		t.Errorf("printed %q, expected %q", got, want)
	}
}

func newEngine(t *testing.T) (*Engine, *editorStore, *output) {
	t.Helper()

	out := &output{}
	runner := effect.NewRunner(effect.NewSink(out))
	st := store.New(editor.NewCommandState(), editor.Reduce, runner.Run,
		store.WithStopWhen(editor.State.IsExit))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.Run(ctx) }()

	e := New(st)
	t.Cleanup(func() {
		e.Close()
		cancel()
		<-done
	})
	return e, st, out
}

func waitStopped(t *testing.T, st *editorStore) {
	t.Helper()
	select {
	case <-st.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("store did not stop")
	}
}

func TestEngine_ExecSession(t *testing.T) {
	e, st, out := newEngine(t)

	err := e.RunString(context.Background(), `
		assert(lined.exec("0a"))
		assert(lined.mode() == "input")
		lined.input("hello")
		lined.input("world")
		lined.exec(".")
		assert(lined.lines() == 3, "lines: " .. lined.lines())
		assert(lined.text() == "hello\nworld\n")
		assert(not lined.exec("bogus"))
		lined.print()
		lined.quit()
	`)
	if err != nil {
		t.Fatalf("RunString() error: %v", err)
	}

	waitStopped(t, st)
	if got := st.State().Text(); got != "hello\nworld\n" {
		t.Errorf("document = %q", got)
	}
	out.waitFor(t, "hello\nworld\n")
}

func TestEngine_AppendLinesAfter(t *testing.T) {
	e, st, _ := newEngine(t)

	err := e.RunString(context.Background(), `
		lined.exec("0a")
		lined.input("one")
		lined.input("three")
		lined.exec(".")
		lined.append(0)
		lined.input("two")
		lined.command()
		local line = lined.cursor()
		assert(line == 1, "cursor line " .. line)
	`)
	if err != nil {
		t.Fatalf("RunString() error: %v", err)
	}
	if got := st.State().Text(); got != "one\ntwo\nthree\n" {
		t.Errorf("document = %q, expected %q", got, "one\ntwo\nthree\n")
	}
}

func TestEngine_Keys(t *testing.T) {
	e, st, _ := newEngine(t)

	err := e.RunString(context.Background(), `
		lined.normal()
		assert(lined.keys("a h i <CR> <Esc>"))
		local line, col = lined.cursor()
		assert(line == 1 and col == 0, "cursor " .. line .. ":" .. col)
		assert(lined.mode() == "normal")
	`)
	if err != nil {
		t.Fatalf("RunString() error: %v", err)
	}
	if got := st.State().Text(); got != "hi\n" {
		t.Errorf("document = %q, expected %q", got, "hi\n")
	}
}

func TestEngine_CharAndAppend(t *testing.T) {
	e, st, out := newEngine(t)

	err := e.RunString(context.Background(), `
		lined.append(0)
		lined.char("ab")
		lined.enter()
		lined.char("cd")
		lined.command()
		lined.printline(1)
		lined.append()
		lined.char("e")
		lined.command()
	`)
	if err != nil {
		t.Fatalf("RunString() error: %v", err)
	}
	if err := st.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := st.State().Text(); got != "ab\ncde" {
		t.Errorf("document = %q, expected %q", got, "ab\ncde")
	}
	out.waitFor(t, "cd\n")
}

func TestEngine_Sandbox(t *testing.T) {
	e, _, _ := newEngine(t)

	for _, name := range []string{"io", "os", "require", "dofile", "loadstring", "debug"} {
		err := e.RunString(context.Background(), `assert(`+name+` == nil, "`+name+` is available")`)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestEngine_Errors(t *testing.T) {
	e, _, _ := newEngine(t)

	err := e.RunString(context.Background(), `this is not lua`)
	var se *Error
	if !errors.As(err, &se) || se.Source != "<string>" {
		t.Errorf("syntax error = %v, expected *Error from <string>", err)
	}

	if err := e.RunString(context.Background(), `lined.printline(-1)`); err == nil {
		t.Error("negative line number accepted")
	}
	if err := e.RunString(context.Background(), `lined.keys("<Nope>")`); err == nil {
		t.Error("bad key spec accepted")
	}
}

func TestEngine_RunFile(t *testing.T) {
	e, st, _ := newEngine(t)

	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`lined.exec("a") lined.input("from file") lined.exec(".")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error: %v", err)
	}
	if err := st.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := st.State().Text(); got != "from file\n" {
		t.Errorf("document = %q", got)
	}

	err := e.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	var se *Error
	if !errors.As(err, &se) {
		t.Errorf("missing file error = %v, expected *Error", err)
	}
}

func TestEngine_Cancel(t *testing.T) {
	e, _, _ := newEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := e.RunString(ctx, `while true do end`); err == nil {
		t.Error("infinite loop was not interrupted")
	}
}

func TestEngine_Closed(t *testing.T) {
	e, _, _ := newEngine(t)
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.RunString(context.Background(), `x = 1`); !errors.Is(err, ErrClosed) {
		t.Errorf("RunString after Close = %v, expected ErrClosed", err)
	}
}
