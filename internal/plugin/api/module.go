package api

import (
	"fmt"

	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/plugin/lua"
)

// Module is a group of functions installed as one Lua global table.
type Module interface {
	// Name returns the global the module is installed under.
	Name() string

	// Funcs returns the module's functions.
	Funcs() map[string]glua.LGFunction
}

// Env is what the modules need from the editor.
type Env struct {
	// Selection backs the selection module. Required.
	Selection SelectionProvider

	// Bus backs the events module. Without it the module is not installed.
	Bus event.Bus

	// Log receives script log output. Defaults to a null logger.
	Log *logging.Logger
}

// Installed is the set of modules installed on one state.
type Installed struct {
	modules []Module
	events  *EventModule
}

// Install registers the API modules on state. Close the result before
// closing the state to drop the script's event subscriptions.
func Install(state *lua.State, env Env) (*Installed, error) {
	if env.Selection == nil {
		return nil, fmt.Errorf("install api: %w", ErrNoProvider)
	}
	if env.Log == nil {
		env.Log = logging.Null()
	}

	inst := &Installed{}
	inst.modules = append(inst.modules,
		NewSelectionModule(env.Selection),
		NewLogModule(env.Log),
	)
	if env.Bus != nil {
		inst.events = NewEventModule(state, env.Bus)
		inst.modules = append(inst.modules, inst.events)
	}

	for _, m := range inst.modules {
		state.RegisterModule(m.Name(), m.Funcs())
	}
	return inst, nil
}

// Modules returns the installed module names in installation order.
func (i *Installed) Modules() []string {
	names := make([]string, len(i.modules))
	for n, m := range i.modules {
		names[n] = m.Name()
	}
	return names
}

// Close removes event subscriptions made by the script.
func (i *Installed) Close() error {
	if i.events == nil {
		return nil
	}
	return i.events.Close()
}
