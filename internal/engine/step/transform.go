package step

import "errors"

// Transform accumulates a run of steps applied to a starting document,
// tracking the composed Mapping a caller needs to carry positions (cursors,
// selections, other pending steps) forward across the whole run.
type Transform struct {
	docs    []Doc
	Steps   []Step
	Mapping *Mapping
}

// NewTransform starts a transform rooted at doc.
func NewTransform(doc Doc) *Transform {
	return &Transform{docs: []Doc{doc}, Mapping: NewMapping()}
}

// Doc returns the transform's current document.
func (t *Transform) Doc() Doc {
	return t.docs[len(t.docs)-1]
}

// Before returns the transform's starting document.
func (t *Transform) Before() Doc {
	return t.docs[0]
}

// DocBefore returns the document step i was applied to.
func (t *Transform) DocBefore(i int) Doc {
	return t.docs[i]
}

// Step applies s to the transform's current document, returning an error if
// it fails. On success s and its map are recorded.
func (t *Transform) Step(s Step) error {
	res := t.MaybeStep(s)
	if res.Failed != "" {
		return errors.New(res.Failed)
	}
	return nil
}

// MaybeStep attempts to apply s, recording it only on success. This is the
// primitive the history core uses while replaying inverted steps during a
// pop: each candidate step is tried against the document the transform has
// reached so far, and only kept if it still applies.
func (t *Transform) MaybeStep(s Step) StepResult {
	res := s.Apply(t.Doc())
	if res.Failed == "" {
		t.docs = append(t.docs, res.Doc)
		t.Steps = append(t.Steps, s)
		t.Mapping.AppendMap(s.GetMap(), -1)
	}
	return res
}
