// Package app wires lined together: configuration, logging, the store,
// the effect runner, scripting and a frontend.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/dshills/lined/internal/config"
	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/effect"
	"github.com/dshills/lined/internal/frontend"
	"github.com/dshills/lined/internal/frontend/line"
	"github.com/dshills/lined/internal/frontend/screen"
	"github.com/dshills/lined/internal/logging"
	"github.com/dshills/lined/internal/script"
	"github.com/dshills/lined/internal/store"
)

// Store is the editor store.
type Store = store.Store[editor.State, editor.Action, editor.Effect]

// Options configures the application. Empty strings leave the configured
// value alone.
type Options struct {
	// ConfigPath is the config file. Empty means config.DefaultPath().
	ConfigPath string

	LogLevel  string
	LogFile   string
	Frontend  string
	StartMode string
	Script    string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether stdin and stdout are terminals. It
	// defaults to checking the process streams.
	IsTerminal func() bool
}

// Application is one editing session.
type Application struct {
	opts       Options
	cfg        config.Config
	configPath string

	log     *logging.Logger
	logFile *os.File

	store    *Store
	script   *script.Engine
	frontend frontend.Frontend

	running atomic.Bool
}

// New loads configuration and builds every component.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = stdioIsTerminal
	}

	app := &Application{opts: opts, configPath: opts.ConfigPath}
	if app.configPath == "" {
		app.configPath = config.DefaultPath()
	}

	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	applyOptions(&cfg, app.opts)
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	out := app.opts.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		app.logFile = f
		out = f
	}
	app.log = logging.New(logging.Config{Level: cfg.LogLevel(), Output: out, Prefix: "lined"})

	// 3. Store and effects
	useScreen := cfg.UI.Frontend == config.FrontendScreen ||
		(cfg.UI.Frontend == config.FrontendAuto && app.opts.IsTerminal())

	var (
		effectOut io.Writer = app.opts.Stdout
		messages  *screen.Messages
	)
	if useScreen {
		messages = screen.NewMessages()
		effectOut = messages
	}
	sink := effect.NewSink(effectOut)
	runner := effect.NewRunner(sink)

	initial := editor.NewState()
	if cfg.Editor.StartMode == config.StartCommand {
		initial = editor.NewCommandState()
	}
	app.store = store.New(initial, editor.Reduce, runner.Run,
		store.WithQueueSize[editor.State](cfg.Editor.QueueSize),
		store.WithStopWhen(editor.State.IsExit),
		store.WithLogger[editor.State](app.log),
	)

	// 4. Scripting
	app.script = script.New(app.store, script.WithLogger(app.log))

	// 5. Frontend
	if useScreen {
		fe, err := screen.NewTerminal(app.store, screen.WithMessages(messages), screen.WithLogger(app.log))
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.frontend = fe
	} else {
		app.frontend = line.New(app.opts.Stdin, sink, app.store,
			line.WithErrorIndicator(cfg.Editor.ErrorIndicator),
			line.WithLogger(app.log))
	}

	app.log.Debug("bootstrapped: frontend=%s start=%s config=%s", frontendName(useScreen), cfg.Editor.StartMode, app.configPath)
	return nil
}

func frontendName(useScreen bool) string {
	if useScreen {
		return config.FrontendScreen
	}
	return config.FrontendLine
}

// applyOptions overrides cfg with command line values.
func applyOptions(cfg *config.Config, opts Options) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Log.Level, opts.LogLevel)
	set(&cfg.Log.File, opts.LogFile)
	set(&cfg.UI.Frontend, opts.Frontend)
	set(&cfg.Editor.StartMode, opts.StartMode)
	set(&cfg.Script.Init, opts.Script)
}

func stdioIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Config returns the resolved configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Store returns the editor store.
func (app *Application) Store() *Store {
	return app.store
}

// Run runs the session until it exits, ctx is cancelled or a component
// fails. Reaching Exit or cancelling ctx returns nil.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	storeErr := make(chan error, 1)
	go func() { storeErr <- app.store.Run(ctx) }()

	go app.watchConfig(ctx)

	if app.cfg.Script.Init != "" {
		if err := app.script.RunFile(ctx, app.cfg.Script.Init); err != nil {
			cancel()
			<-storeErr
			return err
		}
	}

	frontendErr := make(chan error, 1)
	go func() { frontendErr <- app.frontend.Run(ctx) }()

	app.log.Info("session started")

	var err error
	select {
	case err = <-storeErr:
		cancel()
		if ferr := <-frontendErr; err == nil {
			err = ferr
		}
	case err = <-frontendErr:
		if err != nil {
			cancel()
		}
		if serr := <-storeErr; err == nil && !errors.Is(serr, context.Canceled) {
			err = serr
		}
	}

	if errors.Is(err, context.Canceled) {
		err = nil
	}
	app.log.Info("session ended: %s", app.store.State())
	return err
}

// watchConfig applies log level changes from the config file while the
// session runs. Other settings take effect on the next start.
func (app *Application) watchConfig(ctx context.Context) {
	if app.configPath == "" {
		return
	}
	if _, err := os.Stat(app.configPath); err != nil {
		return
	}

	err := config.Watch(ctx, app.configPath,
		func(cfg config.Config) {
			level := cfg.LogLevel()
			if app.opts.LogLevel != "" {
				level = logging.ParseLevel(app.opts.LogLevel)
			}
			if level != app.log.Level() {
				app.log.Info("log level changed to %s", level)
				app.log.SetLevel(level)
			}
		},
		func(err error) {
			app.log.Warn("config reload: %v", err)
		},
	)
	if err != nil {
		app.log.Warn("%v", err)
	}
}

// Close releases resources.
func (app *Application) Close() error {
	var errs []error
	if app.script != nil {
		errs = append(errs, app.script.Close())
	}
	if app.logFile != nil {
		errs = append(errs, app.logFile.Close())
		app.logFile = nil
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	return nil
}
