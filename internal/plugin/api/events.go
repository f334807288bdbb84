package api

import (
	"context"
	"errors"
	"sync"

	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/event/events"
	"github.com/bengler/prosemirror/internal/event/topic"
	"github.com/bengler/prosemirror/internal/plugin/lua"
)

// EventModule lets scripts subscribe Lua functions to bus topics.
type EventModule struct {
	state *lua.State
	bus   event.Bus

	mu   sync.Mutex
	subs map[string]struct{}
}

// NewEventModule creates an events module delivering to callbacks on state.
func NewEventModule(state *lua.State, bus event.Bus) *EventModule {
	return &EventModule{state: state, bus: bus, subs: make(map[string]struct{})}
}

// Name returns "events".
func (m *EventModule) Name() string {
	return "events"
}

// Funcs returns the module functions.
func (m *EventModule) Funcs() map[string]glua.LGFunction {
	return map[string]glua.LGFunction{
		"on":  m.on,
		"off": m.off,
	}
}

// on(pattern, fn) -> id
// fn receives one table: {topic, id, source, ...payload fields}.
func (m *EventModule) on(L *glua.LState) int {
	pattern := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	id, err := m.bus.Subscribe(pattern, event.HandlerFunc(func(ctx context.Context, ev any) error {
		return m.state.CallFunction(ctx, fn, eventToLua(m.state.L, ev))
	}))
	if err != nil {
		L.RaiseError("on %q: %v", pattern, err)
		return 0
	}

	m.mu.Lock()
	m.subs[id] = struct{}{}
	m.mu.Unlock()

	L.Push(glua.LString(id))
	return 1
}

// off(id) -> bool
func (m *EventModule) off(L *glua.LState) int {
	id := L.CheckString(1)

	m.mu.Lock()
	_, ok := m.subs[id]
	delete(m.subs, id)
	m.mu.Unlock()

	if ok {
		_ = m.bus.Unsubscribe(id)
	}
	L.Push(glua.LBool(ok))
	return 1
}

// Close drops every subscription the script made.
func (m *EventModule) Close() error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	m.subs = make(map[string]struct{})
	m.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := m.bus.Unsubscribe(id); err != nil && !errors.Is(err, event.ErrSubscriptionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func eventToLua(L *glua.LState, ev any) *glua.LTable {
	t := L.NewTable()
	if tp, ok := ev.(event.TopicProvider); ok {
		t.RawSetString("topic", glua.LString(tp.EventTopic()))
	}
	if mp, ok := ev.(event.MetadataProvider); ok {
		md := mp.EventMetadata()
		t.RawSetString("id", glua.LString(md.ID))
		t.RawSetString("source", glua.LString(md.Source))
	}

	switch e := ev.(type) {
	case event.Event[events.SelectionChanged]:
		t.RawSetString("old", selectionToLua(L, e.Payload.Old))
		t.RawSetString("new", selectionToLua(L, e.Payload.New))
		t.RawSetString("origin", glua.LString(e.Payload.Source))
	case event.Event[events.CompositionChanged]:
		t.RawSetString("active", glua.LBool(e.Payload.Active))
	case event.Event[events.FocusChanged]:
		t.RawSetString("focused", glua.LBool(e.Payload.Focused))
	case event.Event[events.ConfigReloaded]:
		t.RawSetString("path", glua.LString(e.Payload.Path))
	}
	return t
}
