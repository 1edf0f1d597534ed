package step

import "fmt"

// Doc is an opaque document snapshot. The history core never looks inside
// one; it only ever passes docs to Step.Apply, Step.Invert and
// NewTransform.
type Doc any

// lengther is implemented by document models that can report a length for
// clamping selections. It is not part of the Doc contract — history never
// requires it — but the concrete TextDoc below satisfies it so Selection
// decoding has something to clamp against.
type lengther interface {
	Len() int
}

// Step is a single reversible document edit.
type Step interface {
	// Apply runs the step against doc, returning either the resulting doc
	// or a failure reason.
	Apply(doc Doc) StepResult
	// Invert returns the step that undoes this one, given the doc it was
	// about to be applied to (some steps need to see the replaced content
	// to build their inverse).
	Invert(doc Doc) Step
	// Map adjusts the step to apply after the edits described by mapping,
	// or reports that the step was entirely swallowed by them.
	Map(mapping *Mapping) (Step, bool)
	// Merge combines this step with the one immediately following it, if
	// the pair describes a single contiguous edit.
	Merge(other Step) (Step, bool)
	// GetMap returns the position map this step's application produces.
	GetMap() *StepMap
}

// StepResult is what applying a Step produces.
type StepResult struct {
	Doc    Doc
	Failed string
}

// OK wraps a successful application.
func OK(doc Doc) StepResult {
	return StepResult{Doc: doc}
}

// Fail wraps a failed application.
func Fail(message string) StepResult {
	return StepResult{Failed: message}
}

func (r StepResult) String() string {
	if r.Failed != "" {
		return fmt.Sprintf("step failed: %s", r.Failed)
	}
	return "step ok"
}
