package api

import (
	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/selection"
)

// SelectionProvider is the editor surface the selection module drives.
// *editor.Editor implements it.
type SelectionProvider interface {
	Doc() *model.Node
	Selection() selection.Selection
	SetSelection(sel selection.Selection, takeFocus bool) error
	Move(dir int, textOnly bool)
}

// SelectionModule implements the selection script module.
type SelectionModule struct {
	p SelectionProvider
}

// NewSelectionModule creates a selection module backed by p.
func NewSelectionModule(p SelectionProvider) *SelectionModule {
	return &SelectionModule{p: p}
}

// Name returns "selection".
func (m *SelectionModule) Name() string {
	return "selection"
}

// Funcs returns the module functions.
func (m *SelectionModule) Funcs() map[string]glua.LGFunction {
	return map[string]glua.LGFunction{
		"get":      m.get,
		"near":     m.near,
		"at_start": m.atStart,
		"at_end":   m.atEnd,
		"is_valid": m.isValid,
		"set_text": m.setText,
		"set_node": m.setNode,
		"move":     m.move,
	}
}

// get() -> selection
func (m *SelectionModule) get(L *glua.LState) int {
	L.Push(selectionToLua(L, m.p.Selection()))
	return 1
}

// near(pos, bias?, text_only?) -> selection | nil, err
func (m *SelectionModule) near(L *glua.LState) int {
	pos := checkPos(L, 1)
	bias := L.OptInt(2, 1)
	textOnly := L.OptBool(3, false)

	sel, err := selection.FindSelectionNear(m.p.Doc(), pos, bias, textOnly)
	if err != nil {
		L.Push(glua.LNil)
		L.Push(glua.LString(err.Error()))
		return 2
	}
	L.Push(selectionToLua(L, sel))
	return 1
}

// at_start(text_only?) -> selection | nil
func (m *SelectionModule) atStart(L *glua.LState) int {
	sel, err := selection.FindSelectionAtStart(m.p.Doc(), nil, L.OptBool(1, false))
	if err != nil {
		L.Push(glua.LNil)
		return 1
	}
	L.Push(selectionToLua(L, sel))
	return 1
}

// at_end(text_only?) -> selection | nil
func (m *SelectionModule) atEnd(L *glua.LState) int {
	sel, err := selection.FindSelectionAtEnd(m.p.Doc(), nil, L.OptBool(1, false))
	if err != nil {
		L.Push(glua.LNil)
		return 1
	}
	L.Push(selectionToLua(L, sel))
	return 1
}

// is_valid(selection) -> bool
func (m *SelectionModule) isValid(L *glua.LState) int {
	sel, ok := m.fromLua(L.CheckTable(1))
	L.Push(glua.LBool(ok && selection.IsValid(m.p.Doc(), sel)))
	return 1
}

// set_text(anchor, head?)
// Raises an error if either end is outside a textblock.
func (m *SelectionModule) setText(L *glua.LState) int {
	anchor := checkPos(L, 1)
	head := anchor
	if L.GetTop() >= 2 && L.Get(2) != glua.LNil {
		head = checkPos(L, 2)
	}
	if err := m.p.SetSelection(selection.NewTextSelection(anchor, head), false); err != nil {
		L.RaiseError("set_text: %v", err)
	}
	return 0
}

// set_node(pos)
// Selects the node directly after pos.
func (m *SelectionModule) setNode(L *glua.LState) int {
	pos := checkPos(L, 1)
	sel, err := selection.NodeSelectionAt(m.p.Doc(), pos)
	if err != nil {
		L.RaiseError("set_node: %v", err)
		return 0
	}
	if err := m.p.SetSelection(sel, false); err != nil {
		L.RaiseError("set_node: %v", err)
	}
	return 0
}

// move(dir, text_only?)
func (m *SelectionModule) move(L *glua.LState) int {
	dir := L.CheckInt(1)
	if dir == 0 {
		L.ArgError(1, "direction must be non-zero")
		return 0
	}
	m.p.Move(dir, L.OptBool(2, false))
	return 0
}

// fromLua rebuilds a selection from a table produced by get. A node
// selection is looked up again in the current document.
func (m *SelectionModule) fromLua(t *glua.LTable) (selection.Selection, bool) {
	switch t.RawGetString("type").String() {
	case "text":
		at, ok1 := t.RawGetString("anchor").(*glua.LTable)
		ht, ok2 := t.RawGetString("head").(*glua.LTable)
		if !ok1 || !ok2 {
			return nil, false
		}
		anchor, err1 := tableToPos(at)
		head, err2 := tableToPos(ht)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		return selection.NewTextSelection(anchor, head), true
	case "node":
		ft, ok := t.RawGetString("from").(*glua.LTable)
		if !ok {
			return nil, false
		}
		from, err := tableToPos(ft)
		if err != nil {
			return nil, false
		}
		sel, err := selection.NodeSelectionAt(m.p.Doc(), from)
		if err != nil {
			return nil, false
		}
		return sel, true
	}
	return nil, false
}
