package history

import "errors"

// Sentinel errors returned at the plugin boundary. The core package
// reports ok/not-ok with a bool since "nothing to undo" is routine
// control flow, not a failure; this boundary turns that into an error
// the way the rest of the host's plugin layer reports outcomes.
var (
	// ErrNothingToUndo is returned when the done branch is empty.
	ErrNothingToUndo = errors.New("history: nothing to undo")

	// ErrNothingToRedo is returned when the undone branch is empty.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)
