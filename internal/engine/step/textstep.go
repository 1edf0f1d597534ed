package step

import "fmt"

// TextDoc is the minimal concrete Doc this module ships: a document is just
// its flat text content, standing in for the single paragraph the tests and
// scenario docs ("p(\"hello\")") describe.
type TextDoc struct {
	Text string
}

// Len reports the document's length in runes of text, satisfying lengther
// so Selection decoding can clamp against it.
func (d TextDoc) Len() int {
	return len([]rune(d.Text))
}

func (d TextDoc) String() string {
	return fmt.Sprintf("TextDoc(%q)", d.Text)
}

// ReplaceStep replaces the text in [From, To) with Text, ProseMirror's
// ReplaceStep narrowed to flat text: no slice, no open ends, because there
// is no node structure left to worry about.
type ReplaceStep struct {
	From, To int
	Text     string
}

// Apply implements Step.
func (s ReplaceStep) Apply(doc Doc) StepResult {
	td, ok := doc.(TextDoc)
	if !ok {
		return Fail(fmt.Sprintf("replace step: unsupported doc type %T", doc))
	}
	runes := []rune(td.Text)
	if s.From < 0 || s.To > len(runes) || s.From > s.To {
		return Fail(fmt.Sprintf("replace step: range [%d,%d) out of bounds for length %d", s.From, s.To, len(runes)))
	}
	out := string(runes[:s.From]) + s.Text + string(runes[s.To:])
	return OK(TextDoc{Text: out})
}

// Invert implements Step.
func (s ReplaceStep) Invert(doc Doc) Step {
	td := doc.(TextDoc)
	runes := []rune(td.Text)
	replaced := string(runes[s.From:s.To])
	return ReplaceStep{From: s.From, To: s.From + len([]rune(s.Text)), Text: replaced}
}

// GetMap implements Step.
func (s ReplaceStep) GetMap() *StepMap {
	return NewStepMap([]int{s.From, s.To - s.From, len([]rune(s.Text))})
}

// Map implements Step.
func (s ReplaceStep) Map(mapping *Mapping) (Step, bool) {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted && from.Pos >= to.Pos {
		return nil, false
	}
	newFrom, newTo := from.Pos, to.Pos
	if newFrom > newTo {
		newFrom, newTo = newTo, newFrom
	}
	return ReplaceStep{From: newFrom, To: newTo, Text: s.Text}, true
}

// Merge implements Step, following prosemirror-transform's ReplaceStep.merge:
// two replaces merge when s's insertion ends exactly where other's range
// begins, or when other's replaced range ends exactly where s's begins.
func (s ReplaceStep) Merge(other Step) (Step, bool) {
	o, ok := other.(ReplaceStep)
	if !ok {
		return nil, false
	}
	if s.From+len([]rune(s.Text)) == o.From {
		return ReplaceStep{From: s.From, To: s.To + (o.To - o.From), Text: s.Text + o.Text}, true
	}
	if o.To == s.From {
		return ReplaceStep{From: o.From, To: s.To, Text: o.Text + s.Text}, true
	}
	return nil, false
}
