// Package history implements the undo/redo log for a transform-based
// document editor: an append-only branch of inverted steps and position
// maps, grouped into undo-able events, with support for collapsing
// adjacent edits, rebasing against remote transforms, and compressing away
// map-only bookkeeping once no held step needs it.
//
// The package depends on nothing but the standard library, the step
// contracts in internal/engine/step and the persistent sequence in
// internal/engine/itemseq: it never looks inside a document, a
// step, or a selection marker, only ever asking them to invert, map, merge
// or apply themselves. Everything here is pure and value-typed; every
// operation returns a new Branch or State rather than mutating one.
package history
