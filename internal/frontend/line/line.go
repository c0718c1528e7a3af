// Package line implements the line-oriented frontend.
//
// Each input line is mapped against the current state and its requests
// are dispatched in order. At end of input pending text is inserted and
// the session quits, so piping a script of commands works:
//
//	printf '0a\nhello\n.\n,p\nq\n' | lined --frontend line
package line

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/effect"
	"github.com/dshills/lined/internal/frontend"
	"github.com/dshills/lined/internal/input"
	"github.com/dshills/lined/internal/logging"
	"github.com/dshills/lined/internal/store"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// errorIndicator is written for commands that were not understood or
// were refused.
const errorIndicator = "?\n"

// Frontend reads lines from a reader.
type Frontend struct {
	in             io.Reader
	out            *effect.Sink
	target         frontend.Target
	errorIndicator bool
	log            *logging.Logger
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithErrorIndicator enables or disables the "?" indicator.
func WithErrorIndicator(enabled bool) Option {
	return func(f *Frontend) {
		f.errorIndicator = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Frontend) {
		if l != nil {
			f.log = l
		}
	}
}

// New creates a line frontend reading from in. Output shares the sink
// used by effects.
func New(in io.Reader, out *effect.Sink, target frontend.Target, opts ...Option) *Frontend {
	f := &Frontend{
		in:             in,
		out:            out,
		target:         target,
		errorIndicator: true,
		log:            logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithComponent("line")
	return f
}

type readResult struct {
	line string
	err  error
}

// Run reads until end of input, the session ends or ctx is cancelled.
// A read failure is returned.
func (f *Frontend) Run(ctx context.Context) error {
	lines := make(chan readResult)
	go f.read(ctx, lines)

	for {
		select {
		case <-ctx.Done():
			return nil

		case r, ok := <-lines:
			if !ok {
				f.log.Debug("end of input")
				return f.finish(ctx)
			}
			if r.err != nil {
				return fmt.Errorf("reading input: %w", r.err)
			}

			done, err := f.handle(ctx, r.line)
			if err != nil || done {
				return err
			}
		}
	}
}

// read scans lines until end of input. The reader cannot be interrupted,
// so the goroutine ends at the next line after ctx is cancelled.
func (f *Frontend) read(ctx context.Context, lines chan<- readResult) {
	defer close(lines)

	scanner := bufio.NewScanner(f.in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		select {
		case lines <- readResult{line: scanner.Text()}:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case lines <- readResult{err: err}:
		case <-ctx.Done():
		}
	}
}

// handle maps and dispatches one line. It reports whether the session
// has ended.
func (f *Frontend) handle(ctx context.Context, line string) (bool, error) {
	if err := f.target.Flush(ctx); err != nil {
		return stopped(err)
	}
	state := f.target.State()
	if state.IsExit() {
		return true, nil
	}

	reqs, ok := input.MapLine(state, line)
	if !ok {
		f.log.Debug("not understood: %q", line)
		return false, f.indicate()
	}

	checked := false
	for _, r := range reqs {
		if err := f.target.Dispatch(ctx, r.Action, r.Effect); err != nil {
			return stopped(err)
		}
		checked = checked || refusable(r.Action)
	}

	if checked && f.errorIndicator {
		if err := f.target.Flush(ctx); err != nil {
			return stopped(err)
		}
		if f.target.State().Rejected {
			return false, f.indicate()
		}
	}
	return false, nil
}

// finish inserts pending input and quits.
func (f *Frontend) finish(ctx context.Context) error {
	for _, a := range []editor.Action{editor.ChangeToCommandMode{}, editor.Quit{}} {
		if err := f.target.Dispatch(ctx, a, editor.EffectNone); err != nil {
			_, err = stopped(err)
			return err
		}
	}
	return nil
}

func (f *Frontend) indicate() error {
	if !f.errorIndicator {
		return nil
	}
	if _, err := f.out.WriteString(errorIndicator); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// refusable reports whether a can set State.Rejected.
func refusable(a editor.Action) bool {
	switch a.(type) {
	case editor.StartAppendingInput, editor.SetLineNumber:
		return true
	}
	return false
}

// stopped treats a stopped store as the end of the session.
func stopped(err error) (bool, error) {
	if errors.Is(err, store.ErrStopped) || errors.Is(err, context.Canceled) {
		return true, nil
	}
	return true, err
}
