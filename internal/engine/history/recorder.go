package history

import "github.com/inkstone/history/internal/engine/step"

// Action is the slice of a dispatched editor action the recorder cares
// about: a transform plus the flags that decide how (or whether) it is
// folded into history.
type Action struct {
	Transform *step.Transform
	// Time is the action's dispatch timestamp, in whatever unit
	// Record.NewGroupDelay is expressed in. A host with no reliable clock
	// supplies 0, which degrades the time-based half of the grouping rule
	// without breaking it: adjacency alone still governs.
	Time int64
	// AddToHistory nil or true means "track this transform normally".
	// Only an explicit false takes the non-tracked path.
	AddToHistory *bool
	// Rebased, when non-nil, is the count of trailing local items the
	// collaboration layer replaced.
	Rebased *int
	// HistoryState, when non-nil, replaces the recorder's own decision
	// outright. The shifter uses this to install the result of a pop.
	HistoryState *State
}

// Record carries the one piece of state the recorder's decision table
// needs that isn't on the Action or the State: the editor's selection
// immediately before the action's transform was applied (serialised the
// way the Selection contract produces it), used only to seed a
// newly-started event, plus the grouping/retention options.
type Record struct {
	Selection     string
	Options       Options
	NewGroupDelay int64
}

// Apply runs the recorder's decision table against state and action,
// returning the next State.
func (r Record) Apply(state State, action Action) State {
	if action.HistoryState != nil {
		return *action.HistoryState
	}
	if action.Transform == nil || len(action.Transform.Steps) == 0 {
		return state
	}
	if action.AddToHistory == nil || *action.AddToHistory {
		return r.groupOrAppend(state, action)
	}
	if action.Rebased != nil {
		return r.rebaseBoth(state, action)
	}
	return r.addMapsBoth(state, action)
}

func (r Record) groupOrAppend(state State, action Action) State {
	maps := action.Transform.Mapping.Maps()
	firstMap := maps[0]
	newEvent := state.PrevTime < action.Time-r.NewGroupDelay ||
		!isAdjacent(firstMap, state.PrevMap, state.Done)

	selection := ""
	if newEvent {
		selection = r.Selection
	}

	done := state.Done.AddTransform(action.Transform, selection, r.Options)
	return State{
		Done:     done,
		Undone:   Branch{},
		PrevMap:  maps[len(maps)-1],
		PrevTime: action.Time,
	}
}

func (r Record) rebaseBoth(state State, action Action) State {
	n := *action.Rebased
	done := state.Done.Rebased(action.Transform, n)
	undone := state.Undone.Rebased(action.Transform, n)
	prevMap := state.PrevMap
	if prevMap != nil {
		maps := action.Transform.Mapping.Maps()
		if len(maps) > 0 {
			prevMap = maps[len(maps)-1]
		}
	}
	return State{Done: done, Undone: undone, PrevMap: prevMap, PrevTime: state.PrevTime}
}

func (r Record) addMapsBoth(state State, action Action) State {
	maps := action.Transform.Mapping.Maps()
	done := state.Done.AddMaps(maps)
	undone := state.Undone.AddMaps(maps)
	return State{Done: done, Undone: undone, PrevMap: state.PrevMap, PrevTime: state.PrevTime}
}

// isAdjacent reports whether firstMap's touched ranges overlap prevMap's,
// once pulled back through any trailing MapItems of done to the
// coordinate frame prevMap itself was recorded in. A nil prevMap is never
// adjacent; an empty firstMap (no touched ranges) is trivially adjacent.
//
// firstMap's touched ranges are already expressed in the document prevMap
// produced (that document is exactly what the next transform operates
// on), so they only need pulling back through any non-tracked edits that
// landed after prevMap. prevMap's own touched ranges, by contrast, are
// recorded in the document *before* prevMap ran; mapping each endpoint
// forward through prevMap itself gives the span it actually produced, the
// span we want to compare against.
func isAdjacent(firstMap, prevMap *step.StepMap, done Branch) bool {
	if prevMap == nil {
		return false
	}
	ranges := firstMap.TouchedRanges()
	if len(ranges) == 0 {
		return true
	}
	var prevRanges []step.Range
	for _, pr := range prevMap.TouchedRanges() {
		prevRanges = append(prevRanges, step.Range{
			From: prevMap.MapResult(pr.From, -1).Pos,
			To:   prevMap.MapResult(pr.To, 1).Pos,
		})
	}
	for _, r := range ranges {
		pulled := pullBack(r, done)
		for _, pr := range prevRanges {
			if overlaps(pulled, pr) {
				return true
			}
		}
	}
	return false
}

// pullBack walks done's trailing MapItems (newest to oldest), inverting
// each to carry r's endpoints back to the coordinate frame just after the
// branch's last StepItem — the frame prevMap was recorded in.
func pullBack(r step.Range, done Branch) step.Range {
	from, to := r.From, r.To
	done.items.ForEach(done.items.Len(), 0, func(item Item, _ int) bool {
		if item.HasStep() {
			return false
		}
		inv := item.Map.Invert()
		from = inv.Map(from)
		to = inv.Map(to)
		return true
	})
	return step.Range{From: from, To: to}
}

func overlaps(a, b step.Range) bool {
	return a.From <= b.To && b.From <= a.To
}
