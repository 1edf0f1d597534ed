package history

import "github.com/inkstone/history/internal/engine/step"

// Item is one entry in a Branch: a position map, and optionally the
// inverted step that produced it, a selection marker valid before that
// step was applied, and a mirror offset pointing back at the map this one
// cancels.
//
// An Item with a Step is a StepItem; one without is a MapItem, recording
// a remote or non-tracked edit that happened below the current history
// depth so later StepItems can still be remapped through it. An Item is
// an event boundary iff it carries both a Step and a Selection.
type Item struct {
	Map          *step.StepMap
	Step         step.Step
	Selection    string
	MirrorOffset int
}

// HasStep reports whether it is a StepItem.
func (it Item) HasStep() bool {
	return it.Step != nil
}

// HasSelection reports whether it carries a selection marker.
func (it Item) HasSelection() bool {
	return it.Selection != ""
}

// IsEventBoundary reports whether it starts an event.
func (it Item) IsEventBoundary() bool {
	return it.HasStep() && it.HasSelection()
}

// Merge combines it (the older item, already in the branch) with other
// (the newer item about to be appended). It only succeeds when both carry
// a step and other carries no selection of its own — i.e. they belong to
// the same still-open event. The combined step is built by asking other's
// step to merge with it's step (other is newer, so it is the receiver of
// the merge), mirroring the order a step's own Merge expects.
func (it Item) Merge(other Item) (Item, bool) {
	if !it.HasStep() || !other.HasStep() || other.HasSelection() {
		return Item{}, false
	}
	combined, ok := other.Step.Merge(it.Step)
	if !ok {
		return Item{}, false
	}
	return Item{
		Map:          combined.GetMap().Invert(),
		Step:         combined,
		Selection:    it.Selection,
		MirrorOffset: it.MirrorOffset,
	}, true
}
