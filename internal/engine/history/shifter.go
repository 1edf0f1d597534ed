package history

import "github.com/inkstone/history/internal/engine/step"

// PopResult is what one Undo or Redo call produces: the inverse transform
// to apply, the selection to restore, and the State the editor should
// install in its place. Sealed mirrors the host's own "sealed transaction"
// convention: other plugins observing the emitted action should not
// append further changes to it. ScrollIntoView is always true — the
// point of undo/redo is to bring the user back to where the edit was.
type PopResult struct {
	Transform      *step.Transform
	Selection      step.Selection
	HistoryState   State
	ScrollIntoView bool
	Sealed         bool
}

// shift pops an event from source and records the resulting transform
// onto other (undo always produces a redo entry and vice versa),
// returning the two branches' new values plus the reconstructed transform
// and selection.
func shift(source, other Branch, doc step.Doc, currentSelection string, opts Options) (remaining, added Branch, tr *step.Transform, selection step.Selection, ok bool) {
	remaining, tr, marker, popped := source.PopEvent(doc, opts.PreserveItems)
	if !popped {
		return Branch{}, Branch{}, nil, nil, false
	}
	sel, err := step.SelectionFromJSON(tr.Doc(), marker)
	if err != nil {
		sel = nil
	}
	added = other.AddTransform(tr, currentSelection, opts)
	return remaining, added, tr, sel, true
}

// Undo pops the most recent event off state.Done, recording its inverse
// onto state.Undone. currentSelection is the editor's selection right
// before the undo, serialised, and becomes the selection-before marker
// for the new redo entry.
func Undo(state State, doc step.Doc, currentSelection string, opts Options) (PopResult, bool) {
	remaining, added, tr, sel, ok := shift(state.Done, state.Undone, doc, currentSelection, opts)
	if !ok {
		return PopResult{}, false
	}
	return PopResult{
		Transform:      tr,
		Selection:      sel,
		HistoryState:   State{Done: remaining, Undone: added, PrevMap: nil, PrevTime: 0},
		ScrollIntoView: true,
		Sealed:         true,
	}, true
}

// Redo pops the most recent event off state.Undone, recording its
// inverse onto state.Done.
func Redo(state State, doc step.Doc, currentSelection string, opts Options) (PopResult, bool) {
	remaining, added, tr, sel, ok := shift(state.Undone, state.Done, doc, currentSelection, opts)
	if !ok {
		return PopResult{}, false
	}
	return PopResult{
		Transform:      tr,
		Selection:      sel,
		HistoryState:   State{Done: added, Undone: remaining, PrevMap: nil, PrevTime: 0},
		ScrollIntoView: true,
		Sealed:         true,
	}, true
}
