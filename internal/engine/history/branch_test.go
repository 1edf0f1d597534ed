package history

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/inkstone/history/internal/engine/itemseq"
	"github.com/inkstone/history/internal/engine/step"
)

func mkStepItem(mapRanges []int, from, to int, text, selection string) Item {
	return Item{
		Map:       step.NewStepMap(mapRanges),
		Step:      step.ReplaceStep{From: from, To: to, Text: text},
		Selection: selection,
	}
}

func TestAddMaps(t *testing.T) {
	t.Run("no-op on empty branch", func(t *testing.T) {
		var b Branch
		out := b.AddMaps([]*step.StepMap{step.NewStepMap([]int{0, 1, 1})})
		if out.Len() != 0 {
			t.Fatalf("Len = %d, want 0", out.Len())
		}
	})

	t.Run("appends one MapItem per map, in order", func(t *testing.T) {
		b := Branch{
			items:      itemseq.FromSlice([]Item{mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0))}),
			eventCount: 1,
		}
		maps := []*step.StepMap{step.NewStepMap([]int{0, 1, 2}), step.NewStepMap([]int{2, 0, 1})}
		out := b.AddMaps(maps)

		if out.Len() != 3 {
			t.Fatalf("Len = %d, want 3", out.Len())
		}
		if out.EventCount() != 1 {
			t.Fatalf("EventCount = %d, want unchanged 1", out.EventCount())
		}
		if out.items.Get(1).HasStep() || out.items.Get(1).Map != maps[0] {
			t.Fatalf("item 1 = %+v, want bare MapItem wrapping maps[0]", out.items.Get(1))
		}
		if out.items.Get(2).HasStep() || out.items.Get(2).Map != maps[1] {
			t.Fatalf("item 2 = %+v, want bare MapItem wrapping maps[1]", out.items.Get(2))
		}
	})
}

func TestEvictOldest(t *testing.T) {
	t.Run("drops the oldest dropCount events", func(t *testing.T) {
		items := itemseq.FromSlice([]Item{
			mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0)),
			mkStepItem([]int{1, 0, 1}, 1, 2, "", ""),
			mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0)),
			mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0)),
		})
		out, eventCount := evictOldest(items, 3, 1)
		if eventCount != 2 {
			t.Fatalf("eventCount = %d, want 2", eventCount)
		}
		if out.Len() != 2 {
			t.Fatalf("Len = %d, want 2", out.Len())
		}
		if !out.Get(0).HasSelection() {
			t.Fatalf("expected first surviving item to start an event")
		}
	})

	t.Run("dropping more events than exist empties the branch", func(t *testing.T) {
		items := itemseq.FromSlice([]Item{mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0))})
		out, eventCount := evictOldest(items, 1, 5)
		if out.Len() != 0 || eventCount != 0 {
			t.Fatalf("got Len=%d eventCount=%d, want empty branch", out.Len(), eventCount)
		}
	})
}

// TestAddTransformEvictsOldestOnOverflow exercises the depth-capping path of
// AddTransform end to end: once the event count overflows Options.Depth by
// more than eventOverflow, the oldest events are dropped so the branch
// settles back down to exactly Depth events.
func TestAddTransformEvictsOldestOnOverflow(t *testing.T) {
	pre := make([]Item, 34)
	for i := range pre {
		pre[i] = mkStepItem([]int{0, 0, 0}, 0, 0, "", selJSON(i))
	}
	b := Branch{items: itemseq.FromSlice(pre), eventCount: 34}

	tr := typeAt(step.TextDoc{Text: ""}, 0, "x")
	out := b.AddTransform(tr, selJSON(0), Options{Depth: 10, PreserveItems: true})

	if out.EventCount() != 10 {
		t.Fatalf("EventCount = %d, want 10", out.EventCount())
	}
	if out.Len() != 10 {
		t.Fatalf("Len = %d, want 10", out.Len())
	}
}

func TestRemapping(t *testing.T) {
	a := mkStepItem([]int{0, 0, 1}, 0, 1, "", "")
	bItem := mkStepItem([]int{1, 0, 1}, 1, 2, "", "")
	c := mkStepItem([]int{2, 0, 1}, 2, 3, "", "")
	c.MirrorOffset = 2 // mirrors a, two items back

	branch := Branch{items: itemseq.FromSlice([]Item{a, bItem, c})}

	t.Run("wires mirrors inside the window", func(t *testing.T) {
		m := branch.Remapping(0, 3)
		if len(m.Maps()) != 3 || m.Maps()[0] != a.Map || m.Maps()[1] != bItem.Map || m.Maps()[2] != c.Map {
			t.Fatalf("Maps() = %+v, want [a.Map,b.Map,c.Map] in order", m.Maps())
		}
		if mirror, ok := m.GetMirror(0); !ok || mirror != 2 {
			t.Fatalf("GetMirror(0) = (%d,%v), want (2,true)", mirror, ok)
		}
		if mirror, ok := m.GetMirror(2); !ok || mirror != 0 {
			t.Fatalf("GetMirror(2) = (%d,%v), want (0,true)", mirror, ok)
		}
		if _, ok := m.GetMirror(1); ok {
			t.Fatalf("GetMirror(1) should be unset")
		}
	})

	t.Run("excludes mirrors pointing outside the window", func(t *testing.T) {
		m := branch.Remapping(1, 3)
		if len(m.Maps()) != 2 {
			t.Fatalf("Maps() len = %d, want 2", len(m.Maps()))
		}
		if _, ok := m.GetMirror(1); ok {
			t.Fatalf("mirror at c (index 1 in this window) points outside [1,3) and should be unset")
		}
	})
}

// TestRebased exercises Branch.Rebased directly: a trailing window of items
// gets dropped, re-emitted through whichever step of rebasedTransform
// mirrors it (re-inverted and with its selection remapped), and any
// purely-remote step that sits ahead of every mirror survives as a bare
// MapItem. EventCount never changes.
func TestRebased(t *testing.T) {
	t.Run("re-emits a mirrored item and keeps the untouched prefix", func(t *testing.T) {
		kept := mkStepItem([]int{0, 0, 0}, 0, 0, "", selJSON(0))
		dropped := mkStepItem([]int{4, 0, 6}, 4, 10, "", selJSON(4))
		b := Branch{items: itemseq.FromSlice([]Item{kept, dropped}), eventCount: 2}

		rebasedTr := step.NewTransform(step.TextDoc{Text: "base right"})
		_ = rebasedTr.Step(step.ReplaceStep{From: 4, To: 10, Text: ""})    // undo " right"
		_ = rebasedTr.Step(step.ReplaceStep{From: 0, To: 0, Text: "left "}) // remote insert
		_ = rebasedTr.Step(step.ReplaceStep{From: 9, To: 9, Text: " right"}) // reapply " right"
		rebasedTr.Mapping.SetMirror(0, 2)

		out := b.Rebased(rebasedTr, 1)

		if out.Len() != 3 {
			t.Fatalf("Len = %d, want 3", out.Len())
		}
		if out.EventCount() != 2 {
			t.Fatalf("EventCount = %d, want unchanged 2", out.EventCount())
		}
		if got := out.items.Get(0); got.Map != kept.Map || got.Selection != kept.Selection {
			t.Fatalf("item 0 = %+v, want the untouched kept item", got)
		}
		mid := out.items.Get(1)
		if mid.HasStep() || mid.Map != rebasedTr.Mapping.Maps()[1] {
			t.Fatalf("item 1 = %+v, want a bare MapItem wrapping the remote insert's map", mid)
		}
		last := out.items.Get(2)
		s, ok := last.Step.(step.ReplaceStep)
		if !ok || s.From != 9 || s.To != 15 || s.Text != "" {
			t.Fatalf("item 2 step = %+v, want delete(9,15)", last.Step)
		}
		if last.Map != rebasedTr.Mapping.Maps()[2] {
			t.Fatalf("item 2 map not wired to the reapply step's map")
		}
		if anchor := gjsonInt(last.Selection, "anchor"); anchor != 9 {
			t.Fatalf("remapped selection anchor = %d, want 9", anchor)
		}
	})

	t.Run("drops an item with no mirror", func(t *testing.T) {
		kept := Item{Map: step.NewStepMap([]int{0, 0, 0})}
		droppedWithMirror := mkStepItem([]int{0, 0, 0}, 0, 0, "", selJSON(4))
		droppedNoMirror := mkStepItem([]int{0, 0, 0}, 0, 0, "", selJSON(9))
		b := Branch{
			items:      itemseq.FromSlice([]Item{kept, droppedWithMirror, droppedNoMirror}),
			eventCount: 3,
		}

		rebasedTr := step.NewTransform(step.TextDoc{Text: "hello"})
		_ = rebasedTr.Step(step.ReplaceStep{From: 5, To: 5, Text: "!"})
		rebasedTr.Mapping.SetMirror(0, 0)

		out := b.Rebased(rebasedTr, 2)

		if out.Len() != 2 {
			t.Fatalf("Len = %d, want 2 (dropped item must vanish entirely)", out.Len())
		}
		if out.EventCount() != 3 {
			t.Fatalf("EventCount = %d, want unchanged 3", out.EventCount())
		}
		last := out.items.Get(1)
		s, ok := last.Step.(step.ReplaceStep)
		if !ok || s.From != 5 || s.To != 6 || s.Text != "" {
			t.Fatalf("item 1 step = %+v, want delete(5,6)", last.Step)
		}
		if gjsonInt(last.Selection, "anchor") != 4 {
			t.Fatalf("surviving item's selection should be the mirrored one (anchor 4), got %q", last.Selection)
		}
	})
}

// TestCompress exercises Branch.Compress directly: MapItems inside the
// compressed window disappear unconditionally, surviving StepItems are
// re-derived through whatever MapItems sat after them, a StepItem whose
// step no longer maps is dropped along with its selection, and anything at
// or past upto is carried over untouched.
func TestCompress(t *testing.T) {
	t.Run("eliminates a MapItem no surviving StepItem needs", func(t *testing.T) {
		stepItem := mkStepItem([]int{0, 0, 1}, 0, 1, "", selJSON(0))
		mapItem := Item{Map: step.NewStepMap([]int{1, 0, 2})}
		b := Branch{items: itemseq.FromSlice([]Item{stepItem, mapItem}), eventCount: 1}

		out := b.Compress(2)

		if out.Len() != 1 {
			t.Fatalf("Len = %d, want 1 (the MapItem must vanish)", out.Len())
		}
		if out.EventCount() != 1 {
			t.Fatalf("EventCount = %d, want 1", out.EventCount())
		}
		got := out.items.Get(0)
		s, ok := got.Step.(step.ReplaceStep)
		if !ok || s.From != 0 || s.To != 1 || s.Text != "" {
			t.Fatalf("surviving step = %+v, want delete(0,1)", got.Step)
		}
		if got.Selection != selJSON(0) {
			t.Fatalf("selection = %q, want preserved", got.Selection)
		}
	})

	t.Run("drops a step that no longer maps and preserves the tail", func(t *testing.T) {
		dropped := mkStepItem([]int{2, 0, 3}, 2, 5, "", selJSON(2))
		swallower := Item{
			Map:       step.NewStepMap([]int{0, 10, 0}),
			Step:      step.ReplaceStep{From: 0, To: 0, Text: "0123456789"},
			Selection: selJSON(10),
		}
		tail := mkStepItem([]int{50, 0, 0}, 50, 50, "", selJSON(50))
		b := Branch{items: itemseq.FromSlice([]Item{dropped, swallower, tail}), eventCount: 3}

		out := b.Compress(2)

		if out.Len() != 2 {
			t.Fatalf("Len = %d, want 2 (dropped item gone, swallower + tail remain)", out.Len())
		}
		if out.EventCount() != 2 {
			t.Fatalf("EventCount = %d, want 2", out.EventCount())
		}
		first := out.items.Get(0)
		s, ok := first.Step.(step.ReplaceStep)
		if !ok || s.From != 0 || s.To != 0 || s.Text != "0123456789" {
			t.Fatalf("first surviving step = %+v, want insert(0,\"0123456789\")", first.Step)
		}
		if first.Selection != selJSON(10) {
			t.Fatalf("first selection = %q, want %q", first.Selection, selJSON(10))
		}
		second := out.items.Get(1)
		if second.Map != tail.Map || second.Selection != tail.Selection {
			t.Fatalf("tail item = %+v, want untouched copy of the original tail item", second)
		}
		for i := 0; i < out.Len(); i++ {
			if out.items.Get(i).Selection == selJSON(2) {
				t.Fatalf("dropped item's selection marker must not survive compression")
			}
		}
	})
}

func gjsonInt(json, path string) int {
	return int(gjson.Get(json, path).Int())
}
