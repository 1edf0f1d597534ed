// Package history adapts the undo/redo core in internal/engine/history
// to a host editor: it owns the mutable State across a session, turns
// the core's ok-bool returns into sentinel errors at this boundary,
// and exposes undo/redo/undoDepth/redoDepth to plugin scripts the way
// the host's own command modules expose editor operations to Lua.
package history
