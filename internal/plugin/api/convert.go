package api

import (
	"fmt"

	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/selection"
)

func posToTable(L *glua.LState, pos model.Pos) *glua.LTable {
	path := L.NewTable()
	for _, idx := range pos.Path {
		path.Append(glua.LNumber(idx))
	}
	t := L.NewTable()
	t.RawSetString("path", path)
	t.RawSetString("offset", glua.LNumber(pos.Offset))
	return t
}

func tableToPos(t *glua.LTable) (model.Pos, error) {
	offset, ok := t.RawGetString("offset").(glua.LNumber)
	if !ok {
		return model.Pos{}, fmt.Errorf("position needs a numeric offset")
	}
	var path model.Path
	switch pt := t.RawGetString("path").(type) {
	case *glua.LTable:
		for i := 1; i <= pt.Len(); i++ {
			idx, ok := pt.RawGetInt(i).(glua.LNumber)
			if !ok {
				return model.Pos{}, fmt.Errorf("path entry %d is not a number", i)
			}
			path = append(path, int(idx))
		}
	case *glua.LNilType:
	default:
		return model.Pos{}, fmt.Errorf("path must be a table, got %s", pt.Type())
	}
	return model.NewPos(path, int(offset)), nil
}

// checkPos reads argument n as a position table.
func checkPos(L *glua.LState, n int) model.Pos {
	pos, err := tableToPos(L.CheckTable(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return pos
}

func selectionToLua(L *glua.LState, sel selection.Selection) glua.LValue {
	if sel == nil {
		return glua.LNil
	}
	t := L.NewTable()
	switch s := sel.(type) {
	case *selection.TextSelection:
		t.RawSetString("type", glua.LString("text"))
	case *selection.NodeSelection:
		t.RawSetString("type", glua.LString("node"))
		if n := s.Node(); n != nil && n.Type != nil {
			t.RawSetString("node", glua.LString(n.Type.Name))
		}
	}
	t.RawSetString("anchor", posToTable(L, sel.Anchor()))
	t.RawSetString("head", posToTable(L, sel.Head()))
	t.RawSetString("from", posToTable(L, sel.From()))
	t.RawSetString("to", posToTable(L, sel.To()))
	t.RawSetString("empty", glua.LBool(sel.Empty()))
	return t
}
