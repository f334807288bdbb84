package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/plugin/api"
	"github.com/bengler/prosemirror/internal/plugin/lua"
)

// SetupFunc is the optional global a plugin defines to run after load.
const SetupFunc = "setup"

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the execution timeout of every plugin state.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

type loaded struct {
	script Script
	state  *lua.State
	api    *api.Installed
}

// Manager owns the loaded plugins.
type Manager struct {
	env     api.Env
	timeout time.Duration
	log     *logging.Logger

	mu      sync.Mutex
	plugins map[string]*loaded
	order   []string
	closed  bool
}

// NewManager creates a manager that installs env into every plugin.
func NewManager(env api.Env, opts ...Option) *Manager {
	m := &Manager{
		env:     env,
		timeout: lua.DefaultExecutionTimeout,
		log:     logging.Null(),
		plugins: make(map[string]*loaded),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("plugin")
	if m.env.Log == nil {
		m.env.Log = m.log
	}
	return m
}

// LoadAll discovers and loads the plugins in paths. A failing plugin does
// not stop the others; all failures are returned joined.
func (m *Manager) LoadAll(ctx context.Context, paths ...string) error {
	scripts, err := Discover(paths...)
	if err != nil {
		return fmt.Errorf("discover plugins: %w", err)
	}
	var errs []error
	for _, s := range scripts {
		if err := m.Load(ctx, s); err != nil {
			m.log.Warn("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load runs one script in a fresh state and calls its setup function if
// it defines one.
func (m *Manager) Load(ctx context.Context, s Script) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if _, ok := m.plugins[s.Name]; ok {
		return &LoadError{Name: s.Name, Path: s.Path, Err: ErrAlreadyLoaded}
	}

	state, err := lua.NewState(lua.WithExecutionTimeout(m.timeout))
	if err != nil {
		return &LoadError{Name: s.Name, Path: s.Path, Err: err}
	}
	env := m.env
	env.Log = m.env.Log.WithField("plugin", s.Name)
	inst, err := api.Install(state, env)
	if err != nil {
		_ = state.Close()
		return &LoadError{Name: s.Name, Path: s.Path, Err: err}
	}

	fail := func(err error) error {
		_ = inst.Close()
		_ = state.Close()
		return &LoadError{Name: s.Name, Path: s.Path, Err: err}
	}
	if err := state.DoFile(ctx, s.Path); err != nil {
		return fail(err)
	}
	if fn, ok := state.GetGlobal(SetupFunc).(*glua.LFunction); ok {
		if err := state.CallFunction(ctx, fn); err != nil {
			return fail(fmt.Errorf("%s: %w", SetupFunc, err))
		}
	}

	m.plugins[s.Name] = &loaded{script: s, state: state, api: inst}
	m.order = append(m.order, s.Name)
	m.log.Info("loaded %s", s.Name)
	return nil
}

// Names returns the loaded plugins in load order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Call calls a global function defined by a plugin.
func (m *Manager) Call(ctx context.Context, name, fn string, args ...glua.LValue) ([]glua.LValue, error) {
	m.mu.Lock()
	p, ok := m.plugins[name]
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return nil, ErrManagerClosed
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.state.Call(ctx, fn, args...)
}

// Unload drops a plugin's subscriptions and closes its state.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	p, ok := m.plugins[name]
	if ok {
		delete(m.plugins, name)
		for i, n := range m.order {
			if n == name {
				m.order = append(m.order[:i:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.close()
}

// Close unloads every plugin.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	plugins := m.plugins
	m.plugins = make(map[string]*loaded)
	m.order = nil
	m.mu.Unlock()

	var errs []error
	for _, p := range plugins {
		errs = append(errs, p.close())
	}
	return errors.Join(errs...)
}

func (p *loaded) close() error {
	return errors.Join(p.api.Close(), p.state.Close())
}
