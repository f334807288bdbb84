// Package app wires the selection subsystem into a terminal editor and
// manages its lifecycle.
//
// All editor state lives on one goroutine: terminal events, timer
// callbacks and configuration reloads are posted to a schedule.Loop, and
// the screen is redrawn after every task.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/bengler/prosemirror/internal/config"
	"github.com/bengler/prosemirror/internal/config/watcher"
	"github.com/bengler/prosemirror/internal/editor"
	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/host/term"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/plugin"
	"github.com/bengler/prosemirror/internal/plugin/api"
	"github.com/bengler/prosemirror/internal/reconcile"
	"github.com/bengler/prosemirror/internal/schedule"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the defaults and
	// PMEDIT_ environment overrides only.
	ConfigPath string

	// DocumentPath is the document to open. Empty opens a sample.
	DocumentPath string

	// PluginPaths are searched for *.lua plugins. Nil uses
	// plugin.DefaultPaths.
	PluginPaths []string

	// LogPath is where logs are written. Empty discards them, since the
	// terminal is owned by the editor.
	LogPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// Watch reloads the configuration file when it changes.
	Watch bool
}

// Application is the terminal editor.
type Application struct {
	opts Options
	cfg  config.Config
	log  *logging.Logger
	logf io.Closer

	bus  event.Bus
	loop *schedule.Loop
	doc  *model.Node

	screen  tcell.Screen
	surface *term.Surface
	state   *reconcile.State
	editor  *editor.Editor
	plugins *plugin.Manager
	watcher *watcher.Watcher

	pasting bool
	paste   []rune

	mu      sync.Mutex
	cancel  context.CancelFunc
	quit    bool
	running atomic.Bool
	ran     atomic.Bool
}

// New loads the configuration and document and creates the shared
// infrastructure. Screen-bound components are created by Run.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &ComponentError{Component: "config", Action: "load", Err: err}
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, &ComponentError{Component: "config", Action: "log level", Err: err}
		}
	}
	app.cfg = cfg

	var out io.Writer = io.Discard
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, &ComponentError{Component: "logging", Action: "open", Err: err}
		}
		out, app.logf = f, f
	}
	app.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Output: out,
		Prefix: "pmedit",
	})

	app.doc = SampleDocument()
	if opts.DocumentPath != "" {
		doc, err := LoadDocument(opts.DocumentPath)
		if err != nil {
			app.closeLog()
			return nil, &ComponentError{Component: "document", Action: "load", Err: err}
		}
		app.doc = doc
	}

	app.bus = event.NewBus()
	app.loop = schedule.NewLoop(256)
	return app, nil
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Bus returns the event bus.
func (app *Application) Bus() event.Bus {
	return app.bus
}

// Editor returns the editor. It is nil before Run.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// SetScreen sets the terminal screen. Must be called before Run.
func (app *Application) SetScreen(s tcell.Screen) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	if app.ran.Load() {
		return ErrStopped
	}
	app.screen = s
	return nil
}

// Run initializes the screen and components and runs the event loop until
// the user quits, ctx is cancelled or Shutdown is called. A user quit is
// reported as ErrQuit.
//
// An Application runs once: the screen is finalized and the loop stopped
// when Run returns, so later calls return ErrStopped.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.screen == nil {
		return ErrNoScreen
	}
	if !app.ran.CompareAndSwap(false, true) {
		return ErrStopped
	}
	if err := app.screen.Init(); err != nil {
		return &ComponentError{Component: "screen", Action: "init", Err: err}
	}
	if err := app.start(ctx); err != nil {
		app.screen.Fini()
		return err
	}
	defer app.stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()

	go app.pollEvents()
	app.loop.AfterEach(app.surface.Draw)
	app.surface.Draw()

	err := app.loop.Run(ctx)

	app.mu.Lock()
	quit := app.quit
	app.mu.Unlock()
	if quit {
		return ErrQuit
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown stops a running application. It is safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	app.loop.Stop()
}

// start creates the screen-bound components. The screen must be
// initialized.
func (app *Application) start(ctx context.Context) error {
	app.screen.EnableMouse()
	app.screen.EnablePaste()
	app.screen.EnableFocus()

	app.surface = term.New(app.screen)
	app.surface.Render(app.doc)

	state, err := reconcile.New(app.doc, app.surface, app.loop,
		reconcile.WithConfig(app.cfg.Selection),
		reconcile.WithLogger(app.log),
		reconcile.WithPublisher(app.bus),
	)
	if err != nil {
		return &ComponentError{Component: "reconcile", Action: "init", Err: err}
	}
	app.state = state
	app.editor = editor.New(state,
		editor.WithRenderer(app.surface.Render),
		editor.WithLogger(app.log),
	)

	app.state.CommitToHost(app.cfg.Host.FocusOnStart)
	if app.surface.HasFocus() {
		app.state.OnFocusGained()
	}

	app.plugins = plugin.NewManager(
		api.Env{Selection: app.editor, Bus: app.bus, Log: app.log},
		plugin.WithLogger(app.log),
	)
	paths := app.opts.PluginPaths
	if paths == nil {
		paths = plugin.DefaultPaths()
	}
	if err := app.plugins.LoadAll(ctx, paths...); err != nil {
		app.log.Warn("loading plugins: %v", err)
	}

	if app.opts.Watch && app.opts.ConfigPath != "" {
		w, err := watcher.New(app.opts.ConfigPath,
			func(path string) {
				_ = app.loop.Post(func() { app.reloadConfig(path) })
			},
			watcher.WithErrorHandler(func(err error) {
				app.log.Warn("config watcher: %v", err)
			}),
		)
		if err != nil {
			app.log.Warn("watching %s: %v", app.opts.ConfigPath, err)
		} else {
			app.watcher = w
		}
	}

	app.log.Info("started with %d plugins", len(app.plugins.Names()))
	return nil
}

// stop releases components in reverse start order.
func (app *Application) stop() {
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			app.log.Warn("closing plugins: %v", err)
		}
	}
	if app.state != nil {
		app.state.Destroy()
	}
	app.loop.Stop()
	app.screen.Fini()
	app.log.Info("stopped")
	app.closeLog()
}

func (app *Application) closeLog() {
	if app.logf != nil {
		_ = app.logf.Close()
		app.logf = nil
	}
}

// pollEvents forwards terminal events to the loop until the screen is
// finalized or the loop stops.
func (app *Application) pollEvents() {
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		if err := app.loop.Post(func() { app.dispatch(ev) }); err != nil {
			return
		}
	}
}

// dispatch handles one event on the loop and stops it on quit.
func (app *Application) dispatch(ev tcell.Event) {
	if err := app.handleEvent(ev); errors.Is(err, ErrQuit) {
		app.mu.Lock()
		app.quit = true
		app.mu.Unlock()
		app.loop.Stop()
	}
}
