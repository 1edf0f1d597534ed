package history

import "github.com/inkstone/history/internal/engine/step"

// State is a pair of branches plus the grouping metadata the recorder
// needs to decide whether the next tracked edit continues the current
// event or starts a new one. The zero value is an empty history.
type State struct {
	Done     Branch
	Undone   Branch
	PrevMap  *step.StepMap
	PrevTime int64
}

// UndoDepth reports how many events Undo would walk through.
func (s State) UndoDepth() int {
	return s.Done.EventCount()
}

// RedoDepth reports how many events Redo would walk through.
func (s State) RedoDepth() int {
	return s.Undone.EventCount()
}

// CloseHistory resets grouping metadata so the next tracked edit always
// starts a new event, leaving both branches untouched.
func CloseHistory(s State) State {
	return State{Done: s.Done, Undone: s.Undone, PrevMap: nil, PrevTime: 0}
}
