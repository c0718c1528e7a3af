// Package effect runs editor effects against a state snapshot.
//
// Effects only read the snapshot they are given. Output goes through a
// Sink so that concurrent effects never interleave partial writes.
package effect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/dshills/lined/internal/editor"
)

// Sink serializes writes to an underlying writer. Each call to Write
// reaches the writer as a single Write while the lock is held.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink wraps w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write writes p in one call to the underlying writer.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// WriteString writes str in one call to the underlying writer.
func (s *Sink) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Runner executes effects and writes their output to a Sink.
type Runner struct {
	out *Sink
}

// NewRunner creates a runner that writes to out.
func NewRunner(out *Sink) *Runner {
	return &Runner{out: out}
}

// Run executes e against state. The returned sequence yields follow-up
// actions; a non-nil error ends the sequence and is fatal to the caller.
// Neither current effect produces follow-up actions.
func (r *Runner) Run(ctx context.Context, state editor.State, e editor.Effect) iter.Seq2[editor.Action, error] {
	return func(yield func(editor.Action, error) bool) {
		if err := ctx.Err(); err != nil {
			return
		}

		var err error
		switch e {
		case editor.EffectPrint:
			err = r.print(state)
		case editor.EffectPrintLine:
			err = r.printLine(state)
		case editor.EffectNone:
		default:
			err = fmt.Errorf("unknown effect %d", e)
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (r *Runner) print(state editor.State) error {
	var buf bytes.Buffer
	buf.Grow(int(state.Doc.ByteLen()))
	if _, err := state.Doc.WriteTo(&buf); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	if buf.Len() == 0 {
		return nil
	}
	if _, err := r.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

func (r *Runner) printLine(state editor.State) error {
	if state.Rejected {
		return nil
	}
	line := state.Cursor.Line
	if line >= state.LineCount() {
		return nil
	}
	if _, err := r.out.WriteString(state.Doc.LineText(line) + "\n"); err != nil {
		return fmt.Errorf("print line %d: %w", line, err)
	}
	return nil
}
