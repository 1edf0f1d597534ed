package history

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/inkstone/history/internal/engine/history"
	"github.com/inkstone/history/internal/engine/step"
)

// LuaModule registers history's commands into a Lua state the way the
// host's own command modules register a table of Go-backed functions
// under a single global: history.undo(), history.redo(),
// history.undoDepth(), history.redoDepth(). doc and selection are
// called on every undo/redo to get the live document and the
// editor's current selection, serialised.
type LuaModule struct {
	plugin    *Plugin
	doc       func() step.Doc
	selection func() string
}

// NewLuaModule builds a LuaModule bound to plugin. doc and selection
// are host callbacks, called fresh on every undo()/redo() to get the
// live document and the editor's current selection, serialised. The
// Lua table returned on success carries "steps", "description", and
// (when the popped event carried one) "selection".
func NewLuaModule(plugin *Plugin, doc func() step.Doc, selection func() string) *LuaModule {
	return &LuaModule{plugin: plugin, doc: doc, selection: selection}
}

// Register installs the history global table into L.
func (m *LuaModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "undoDepth", L.NewFunction(m.undoDepth))
	L.SetField(mod, "redoDepth", L.NewFunction(m.redoDepth))
	L.SetGlobal("history", mod)
	return nil
}

func (m *LuaModule) undo(L *lua.LState) int {
	res, err := m.plugin.Undo(m.doc(), m.selection())
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(resultTable(L, res))
	return 1
}

func (m *LuaModule) redo(L *lua.LState) int {
	res, err := m.plugin.Redo(m.doc(), m.selection())
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(resultTable(L, res))
	return 1
}

func (m *LuaModule) undoDepth(L *lua.LState) int {
	L.Push(lua.LNumber(m.plugin.UndoDepth()))
	return 1
}

func (m *LuaModule) redoDepth(L *lua.LState) int {
	L.Push(lua.LNumber(m.plugin.RedoDepth()))
	return 1
}

func resultTable(L *lua.LState, res history.PopResult) *lua.LTable {
	tbl := L.NewTable()
	steps := 0
	if res.Transform != nil {
		steps = len(res.Transform.Steps)
	}
	L.SetField(tbl, "steps", lua.LNumber(steps))
	L.SetField(tbl, "description", lua.LString(Describe(res)))
	if res.Selection != nil {
		L.SetField(tbl, "selection", lua.LString(res.Selection.ToJSON()))
	}
	return tbl
}
