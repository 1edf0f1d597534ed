package step

import "testing"

func TestReplaceStepApply(t *testing.T) {
	doc := TextDoc{Text: "hello world"}
	s := ReplaceStep{From: 6, To: 11, Text: "there"}
	res := s.Apply(doc)
	if res.Failed != "" {
		t.Fatalf("Apply failed: %s", res.Failed)
	}
	if got, want := res.Doc.(TextDoc).Text, "hello there"; got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestReplaceStepApplyOutOfBounds(t *testing.T) {
	doc := TextDoc{Text: "hi"}
	s := ReplaceStep{From: 0, To: 5, Text: "x"}
	res := s.Apply(doc)
	if res.Failed == "" {
		t.Fatalf("expected failure for out-of-bounds range")
	}
}

func TestReplaceStepInvertRoundTrips(t *testing.T) {
	doc := TextDoc{Text: "hello world"}
	s := ReplaceStep{From: 6, To: 11, Text: "there"}
	res := s.Apply(doc)
	inv := s.Invert(doc)
	back := inv.Apply(res.Doc)
	if back.Failed != "" {
		t.Fatalf("invert apply failed: %s", back.Failed)
	}
	if got := back.Doc.(TextDoc).Text; got != doc.Text {
		t.Fatalf("round trip = %q, want %q", got, doc.Text)
	}
}

func TestReplaceStepMergeAdjacentInserts(t *testing.T) {
	a := ReplaceStep{From: 5, To: 5, Text: "a"}
	b := ReplaceStep{From: 6, To: 6, Text: "b"}
	merged, ok := a.Merge(b)
	if !ok {
		t.Fatalf("expected merge")
	}
	m := merged.(ReplaceStep)
	if m.From != 5 || m.To != 5 || m.Text != "ab" {
		t.Fatalf("merged = %+v, want {5 5 ab}", m)
	}
}

func TestReplaceStepMergeRejectsGap(t *testing.T) {
	a := ReplaceStep{From: 5, To: 5, Text: "a"}
	b := ReplaceStep{From: 10, To: 10, Text: "b"}
	if _, ok := a.Merge(b); ok {
		t.Fatalf("expected no merge across a gap")
	}
}

func TestReplaceStepMapShiftsByEarlierInsert(t *testing.T) {
	insert := ReplaceStep{From: 0, To: 0, Text: "xx"}
	mapping := NewMapping(insert.GetMap())
	later := ReplaceStep{From: 3, To: 5, Text: "y"}
	mapped, ok := later.Map(mapping)
	if !ok {
		t.Fatalf("expected mapping to survive")
	}
	m := mapped.(ReplaceStep)
	if m.From != 5 || m.To != 7 {
		t.Fatalf("mapped = %+v, want From=5 To=7", m)
	}
}

func TestTransformMaybeStep(t *testing.T) {
	tr := NewTransform(TextDoc{Text: "abc"})
	res := tr.MaybeStep(ReplaceStep{From: 1, To: 2, Text: "X"})
	if res.Failed != "" {
		t.Fatalf("MaybeStep failed: %s", res.Failed)
	}
	if got := tr.Doc().(TextDoc).Text; got != "aXc" {
		t.Fatalf("Doc() = %q, want aXc", got)
	}
	if len(tr.Steps) != 1 {
		t.Fatalf("Steps len = %d, want 1", len(tr.Steps))
	}

	failed := tr.MaybeStep(ReplaceStep{From: 0, To: 100, Text: "z"})
	if failed.Failed == "" {
		t.Fatalf("expected MaybeStep to fail on bad range")
	}
	if len(tr.Steps) != 1 {
		t.Fatalf("failed step should not be recorded, Steps len = %d", len(tr.Steps))
	}
}

func TestMappingInvertCancelsOut(t *testing.T) {
	sm := NewStepMap([]int{2, 1, 3})
	mapping := NewMapping(sm)
	inverted := mapping.Invert()
	pos := mapping.Map(2)
	back := inverted.Map(pos)
	if back != 2 {
		t.Fatalf("round trip through invert = %d, want 2", back)
	}
}

func TestSelectionJSONRoundTrip(t *testing.T) {
	sel := TextSelection{Anchor: 3, Head: 7}
	j := sel.ToJSON()
	doc := TextDoc{Text: "0123456789"}
	decoded, err := SelectionFromJSON(doc, j)
	if err != nil {
		t.Fatalf("SelectionFromJSON: %v", err)
	}
	got := decoded.(TextSelection)
	if got.Anchor != 3 || got.Head != 7 {
		t.Fatalf("decoded = %+v, want {3 7}", got)
	}
}

func TestSelectionJSONClampsToDocLength(t *testing.T) {
	sel := TextSelection{Anchor: 2, Head: 999}
	j := sel.ToJSON()
	doc := TextDoc{Text: "short"}
	decoded, err := SelectionFromJSON(doc, j)
	if err != nil {
		t.Fatalf("SelectionFromJSON: %v", err)
	}
	got := decoded.(TextSelection)
	if got.Head != len([]rune(doc.Text)) {
		t.Fatalf("Head = %d, want clamped to %d", got.Head, len([]rune(doc.Text)))
	}
}

func TestMapSelectionJSONShiftsPositions(t *testing.T) {
	sel := TextSelection{Anchor: 5, Head: 5}
	j := sel.ToJSON()
	insert := ReplaceStep{From: 0, To: 0, Text: "xx"}
	mapping := NewMapping(insert.GetMap())
	mapped := MapSelectionJSON(j, mapping)
	doc := TextDoc{Text: "xx01234567"}
	decoded, err := SelectionFromJSON(doc, mapped)
	if err != nil {
		t.Fatalf("SelectionFromJSON: %v", err)
	}
	got := decoded.(TextSelection)
	if got.Anchor != 7 || got.Head != 7 {
		t.Fatalf("mapped selection = %+v, want {7 7}", got)
	}
}
