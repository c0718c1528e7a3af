// Package screen implements the full-screen terminal frontend.
//
// The document fills the screen above a status line showing the mode and
// cursor, and a command line showing the command being typed. Keys are
// mapped with the key grammar:
//
//	NORMAL   a append, i insert, : command, Ctrl-C/Ctrl-D quit
//	COMMAND  type a command, Enter runs it, Esc cancels
//	INSERT   type text, Enter breaks the line, Esc returns to NORMAL
//
// Every committed state is redrawn.
package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lined/internal/frontend"
	"github.com/dshills/lined/internal/input"
	"github.com/dshills/lined/internal/logging"
	"github.com/dshills/lined/internal/store"
)

// Frontend drives a tcell screen.
type Frontend struct {
	screen tcell.Screen
	target frontend.Target
	log    *logging.Logger
	msgs   *Messages
	view   view
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Frontend) {
		if l != nil {
			f.log = l
		}
	}
}

// WithMessages shows the last line written to m on the command line.
// Pass m as the effect output so printed lines appear on screen.
func WithMessages(m *Messages) Option {
	return func(f *Frontend) {
		f.msgs = m
	}
}

// New creates a frontend on scr. Run initializes and finalizes the screen.
func New(scr tcell.Screen, target frontend.Target, opts ...Option) *Frontend {
	f := &Frontend{
		screen: scr,
		target: target,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.msgs == nil {
		f.msgs = NewMessages()
	}
	f.msgs.setNotify(func() {
		_ = f.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	f.log = f.log.WithComponent("screen")
	return f
}

// NewTerminal creates a frontend on the process terminal.
func NewTerminal(target frontend.Target, opts ...Option) (*Frontend, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return New(scr, target, opts...), nil
}

// Run draws and handles keys until the session ends or ctx is cancelled.
func (f *Frontend) Run(ctx context.Context) error {
	if err := f.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer f.screen.Fini()

	sub := f.target.Subscribe()
	defer sub.Close()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go f.poll(events, quit)

	for {
		select {
		case <-ctx.Done():
			return nil

		case s, ok := <-sub.C():
			if !ok {
				return nil
			}
			f.view.state = s
			f.render()
			if s.IsExit() {
				return nil
			}

		case ev := <-events:
			if err := f.handle(ctx, ev); err != nil {
				if errors.Is(err, store.ErrStopped) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

// poll forwards screen events until quit is closed or the screen is
// finalized.
func (f *Frontend) poll(events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

func (f *Frontend) handle(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		f.screen.Sync()
		f.render()
		return nil

	case *tcell.EventInterrupt:
		f.render()
		return nil

	case *tcell.EventKey:
		k, ok := convertKey(ev)
		if !ok {
			return nil
		}

		if err := f.target.Flush(ctx); err != nil {
			return err
		}
		reqs, understood := input.MapKey(f.target.State(), k)
		f.log.Debug("key %v -> %v", k, reqs)

		f.view.unknown = !understood
		f.msgs.clear()
		for _, r := range reqs {
			if err := f.target.Dispatch(ctx, r.Action, r.Effect); err != nil {
				return err
			}
		}
		if len(reqs) == 0 {
			f.render()
		}
		return nil
	}
	return nil
}

func (f *Frontend) render() {
	f.view.message = f.msgs.Last()
	f.view.top = draw(f.screen, f.view)
}
