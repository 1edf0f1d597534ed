package history

import (
	"github.com/inkstone/history/internal/engine/itemseq"
	"github.com/inkstone/history/internal/engine/step"
)

// eventOverflow is how far eventCount may exceed Options.Depth before the
// oldest events get evicted from a Branch.
const eventOverflow = 20

// compressMapItemThreshold is how many map-only items a branch may carry
// before Rebased triggers a compression pass.
const compressMapItemThreshold = 500

// Options configures the two operations that need to know about grouping
// and item-retention policy: AddTransform and PopEvent.
type Options struct {
	Depth         int
	PreserveItems bool
}

// Branch is one direction's log: undo ("done") or redo ("undone"). The
// zero value is an empty branch.
type Branch struct {
	items      itemseq.Seq[Item]
	eventCount int
}

// EventCount reports how many undo-able events the branch holds.
func (b Branch) EventCount() int {
	return b.eventCount
}

// Len reports the total number of items, step and map alike.
func (b Branch) Len() int {
	return b.items.Len()
}

// EmptyItemCount counts items lacking a step.
func (b Branch) EmptyItemCount() int {
	n := 0
	b.items.ForEach(0, b.items.Len(), func(item Item, _ int) bool {
		if !item.HasStep() {
			n++
		}
		return true
	})
	return n
}

// AddTransform appends one StepItem per step of tr, in order. The first
// new item carries selection (the serialised selection-before marker) iff
// selection is non-empty; later items in the same call carry none. Unless
// opts.PreserveItems, the first new item is offered to the branch's
// current last item for merging. When the branch's event count would
// overflow opts.Depth by more than eventOverflow, the oldest whole events
// are evicted.
func (b Branch) AddTransform(tr *step.Transform, selection string, opts Options) Branch {
	items := b.items
	for i, s := range tr.Steps {
		inverted := s.Invert(tr.DocBefore(i))
		newItem := Item{Map: s.GetMap(), Step: inverted}
		if i == 0 && selection != "" {
			newItem.Selection = selection
		}
		if i == 0 && !opts.PreserveItems && items.Len() > 0 {
			last := items.Get(items.Len() - 1)
			if merged, ok := last.Merge(newItem); ok {
				items = items.Slice(0, items.Len()-1).Append(merged)
				continue
			}
		}
		items = items.Append(newItem)
	}

	eventCount := b.eventCount
	if selection != "" {
		eventCount++
	}

	if overflow := eventCount - opts.Depth; overflow > eventOverflow {
		items, eventCount = evictOldest(items, eventCount, overflow)
	}

	return Branch{items: items, eventCount: eventCount}
}

// evictOldest drops the oldest dropCount events from items.
func evictOldest(items itemseq.Seq[Item], eventCount, dropCount int) (itemseq.Seq[Item], int) {
	seen := 0
	cut := -1
	items.ForEach(0, items.Len(), func(item Item, i int) bool {
		if item.HasSelection() {
			seen++
			if seen == dropCount+1 {
				cut = i
				return false
			}
		}
		return true
	})
	if cut < 0 {
		// Fewer than dropCount+1 events exist; evicting them all empties
		// the branch.
		return itemseq.Empty[Item](), 0
	}
	return items.Slice(cut, items.Len()), eventCount - dropCount
}

// AddMaps records maps as MapItems, one per map. A no-op on an empty
// branch: with no held StepItem, there is nothing for the maps to be
// remapped against later.
func (b Branch) AddMaps(maps []*step.StepMap) Branch {
	if b.items.Len() == 0 {
		return b
	}
	items := b.items
	for _, m := range maps {
		items = items.Append(Item{Map: m})
	}
	return Branch{items: items, eventCount: b.eventCount}
}

// findEventStart returns the index of the most recent selection-bearing
// item, which is where the branch's last event begins. Returns 0 if none
// is found (should not happen when EventCount > 0).
func (b Branch) findEventStart() int {
	found := 0
	b.items.ForEach(b.items.Len(), 0, func(item Item, i int) bool {
		if item.HasSelection() {
			found = i
			return false
		}
		return true
	})
	return found
}

// Remapping builds a Mapping from the items in [from, to), wiring up
// mirror pairs for any item in the window whose MirrorOffset points at
// another item inside the same window.
func (b Branch) Remapping(from, to int) *step.Mapping {
	maps := make([]*step.StepMap, 0, to-from)
	b.items.ForEach(from, to, func(item Item, _ int) bool {
		maps = append(maps, item.Map)
		return true
	})
	mapping := step.NewMapping(maps...)
	b.items.ForEach(from, to, func(item Item, i int) bool {
		if item.MirrorOffset > 0 {
			mirror := i - item.MirrorOffset
			if mirror >= from && mirror < to {
				mapping.SetMirror(i-from, mirror-from)
			}
		}
		return true
	})
	return mapping
}

// PopEvent reconstructs the inverse of the branch's most recent event as a
// Transform rooted at doc, returning the branch with that event removed,
// the reconstructed transform, the selection marker to restore, and
// whether there was anything to pop.
//
// The walk runs backward (newest item to the event's first item), the
// natural order for undoing: each StepItem's inverted step is remapped
// through the maps of the items already visited (the edits that happened
// after it) before being tried against the running transform. Items that
// no longer map or no longer apply are silently dropped, producing a
// best-effort partial undo rather than failing outright.
func (b Branch) PopEvent(doc step.Doc, preserveItems bool) (Branch, *step.Transform, string, bool) {
	if b.eventCount == 0 {
		return Branch{}, nil, "", false
	}

	length := b.items.Len()
	end := b.findEventStart()

	var remap *step.Mapping
	mapFrom := 0
	if preserveItems {
		remap = b.Remapping(end, length)
		mapFrom = remap.Len()
	}

	tr := step.NewTransform(doc)
	var addBefore []Item
	var addAfter []Item
	selection := ""
	found := false

	b.items.ForEach(length, end, func(item Item, i int) bool {
		if remap == nil && !item.HasStep() {
			remap = b.Remapping(end, i+1)
			mapFrom = remap.Len()
		}

		var thisSlice *step.Mapping
		if remap != nil {
			thisSlice = remap.Slice(mapFrom, remap.Len())
		}

		if !item.HasStep() {
			mapFrom--
			addBefore = append(addBefore, Item{Map: item.Map})
			return true
		}

		if remap != nil {
			addBefore = append(addBefore, Item{Map: item.Map})
			mappedStep, ok := item.Step.Map(thisSlice)
			mapFrom--
			var appliedMap *step.StepMap
			if ok {
				res := tr.MaybeStep(mappedStep)
				if res.Failed == "" {
					ms := tr.Mapping.Maps()
					appliedMap = ms[len(ms)-1]
					addAfter = append(addAfter, Item{Map: appliedMap, MirrorOffset: len(addBefore) + len(addAfter)})
				}
			}
			if appliedMap != nil {
				remap.AppendMap(appliedMap, mapFrom)
			}
		} else {
			tr.MaybeStep(item.Step)
		}

		if item.HasSelection() {
			marker := item.Selection
			if thisSlice != nil {
				marker = step.MapSelectionJSON(marker, thisSlice)
			}
			selection = marker
			found = true
			return false
		}
		return true
	})

	if !found {
		return b, nil, "", false
	}

	remaining := b.items.Slice(0, end)
	for i := len(addBefore) - 1; i >= 0; i-- {
		remaining = remaining.Append(addBefore[i])
	}
	for _, it := range addAfter {
		remaining = remaining.Append(it)
	}

	return Branch{items: remaining, eventCount: b.eventCount - 1}, tr, selection, true
}

// Rebased reconciles the branch with a transform that replaced the
// branch's trailing rebasedCount items: a prefix of purely remote steps
// followed by the branch's own local steps, reapplied on top. Items whose
// position is mirrored in rebasedTransform's mapping are re-emitted using
// the rebased step (or map); items with no mirror are simply dropped, the
// same best-effort policy PopEvent uses for steps that no longer apply.
//
// EventCount is left unchanged: the source this module follows carries a
// long-standing note that it "might" need to change here and never does,
// a decision this module preserves (see DESIGN.md).
func (b Branch) Rebased(rebasedTransform *step.Transform, rebasedCount int) Branch {
	total := b.items.Len()
	if total == 0 {
		return b
	}

	dropped := rebasedCount
	if dropped > total {
		dropped = total
	}
	keptLen := total - dropped
	kept := b.items.Slice(0, keptLen)

	maps := rebasedTransform.Mapping.Maps()
	newUntil := len(maps)
	var rebasedLocal []Item
	for i := 0; i < dropped; i++ {
		mirror, ok := rebasedTransform.Mapping.GetMirror(i)
		if !ok {
			continue
		}
		if mirror < newUntil {
			newUntil = mirror
		}
		old := b.items.Get(keptLen + i)
		rebasedMap := maps[mirror]
		if old.HasStep() {
			rebasedStep := rebasedTransform.Steps[mirror]
			invertedStep := rebasedStep.Invert(rebasedTransform.DocBefore(mirror))
			sel := old.Selection
			if sel != "" {
				sel = step.MapSelectionJSON(sel, rebasedTransform.Mapping.Slice(0, mirror))
			}
			rebasedLocal = append(rebasedLocal, Item{Map: rebasedMap, Step: invertedStep, Selection: sel})
		} else {
			rebasedLocal = append(rebasedLocal, Item{Map: rebasedMap})
		}
	}

	result := kept
	for i := dropped; i < newUntil; i++ {
		result = result.Append(Item{Map: maps[i]})
	}
	for _, it := range rebasedLocal {
		result = result.Append(it)
	}

	branch := Branch{items: result, eventCount: b.eventCount}
	if branch.EmptyItemCount() > compressMapItemThreshold {
		branch = branch.Compress(keptLen + (newUntil - dropped))
	}
	return branch
}

// Compress rewrites the branch, eliminating MapItems within [0, upto)
// that no StepItem still needs, and re-deriving each surviving StepItem's
// map and step through whatever MapItems sat after it. Items at or past
// upto are left untouched. The walk runs backward for the same reason
// PopEvent's does: a StepItem's effect has to be evaluated in terms of
// the edits that came after it, which backward iteration visits first.
func (b Branch) Compress(upto int) Branch {
	total := b.items.Len()
	if upto < 0 || upto > total {
		upto = total
	}

	remap := b.Remapping(0, upto)
	var emitted []Item // accumulated newest-first; reversed before use

	b.items.ForEach(upto, 0, func(item Item, i int) bool {
		if !item.HasStep() {
			return true
		}
		mappedStep, ok := item.Step.Map(remap.Slice(i+1, upto))
		if !ok {
			return true
		}
		candidate := Item{Map: mappedStep.GetMap().Invert(), Step: mappedStep, Selection: item.Selection}
		if len(emitted) > 0 {
			if merged, ok := candidate.Merge(emitted[len(emitted)-1]); ok {
				emitted[len(emitted)-1] = merged
				return true
			}
		}
		emitted = append(emitted, candidate)
		return true
	})

	kept := make([]Item, len(emitted))
	for i, it := range emitted {
		kept[len(emitted)-1-i] = it
	}

	result := itemseq.FromSlice(kept)
	eventCount := 0
	for _, it := range kept {
		if it.HasSelection() {
			eventCount++
		}
	}
	if upto < total {
		tail := b.items.Slice(upto, total)
		result = result.Concat(tail)
		tail.ForEach(0, tail.Len(), func(item Item, _ int) bool {
			if item.HasSelection() {
				eventCount++
			}
			return true
		})
	}

	return Branch{items: result, eventCount: eventCount}
}
