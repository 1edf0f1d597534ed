package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"

	"github.com/inkstone/history/internal/config"
	"github.com/inkstone/history/internal/engine/history"
	"github.com/inkstone/history/internal/engine/step"
)

// Logger matches the host's own injectable logging shape: a single
// printf-style function, nil meaning "don't log".
type Logger func(format string, args ...any)

// Plugin owns one editor's undo/redo session: the mutable State, the
// grouping options it was configured with, and the correlation ID
// logged against every transform it records, the way the host's
// process supervisor tags a run with uuid.New() for the life of that
// run.
type Plugin struct {
	mu    sync.Mutex
	state history.State
	opts  history.Options

	newGroupDelay int64
	forcedGroup   bool

	logger Logger
	id     string
}

// New builds a Plugin from cfg, grounded on the host's own
// internal/config pattern of handing a loaded Config to the
// component that consumes it. A nil logger disables logging.
func New(cfg config.Config, logger Logger) *Plugin {
	return &Plugin{
		opts:          history.Options{Depth: cfg.Depth, PreserveItems: cfg.PreserveItems},
		newGroupDelay: cfg.NewGroupDelay,
		logger:        logger,
		id:            uuid.New().String(),
	}
}

func (p *Plugin) log(format string, args ...any) {
	if p.logger != nil {
		p.logger("history[%s]: "+format, append([]any{p.id}, args...)...)
	}
}

// Apply records a dispatched transform. selection is the editor's
// selection-before marker, serialised; addToHistory nil or true tracks
// the transform normally, an explicit false records it as a
// non-tracked edit; rebased, when non-nil, is the count of trailing
// local items a collaboration sync replaced. timeMS is the action's
// dispatch time in milliseconds; callers with no reliable clock may
// pass 0.
func (p *Plugin) Apply(tr *step.Transform, selection string, addToHistory *bool, rebased *int, timeMS int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delay := p.newGroupDelay
	if p.forcedGroup {
		// A delay covering the whole gap since the last tracked edit
		// keeps the time test from ever starting a new event.
		delay = timeMS - p.state.PrevTime
	}
	rec := history.Record{Selection: selection, Options: p.opts, NewGroupDelay: delay}
	p.state = rec.Apply(p.state, history.Action{
		Transform:    tr,
		Time:         timeMS,
		AddToHistory: addToHistory,
		Rebased:      rebased,
	})
	p.log("applied transform, undoDepth=%d redoDepth=%d", p.state.UndoDepth(), p.state.RedoDepth())
}

// WithGroup runs fn with the time-based half of the grouping rule
// suspended, so any transforms fn applies through Apply join the same
// undo event as long as they stay adjacent — the batching a host uses
// to make a multi-step command (find-and-replace-all, a formatter
// pass) undo as one step.
func (p *Plugin) WithGroup(fn func()) {
	p.mu.Lock()
	p.forcedGroup = true
	p.mu.Unlock()

	fn()

	p.mu.Lock()
	p.forcedGroup = false
	p.mu.Unlock()
}

// Undo pops the most recent event, returning the inverse transform to
// apply and the selection to restore. currentSelection is the editor's
// selection immediately before the undo, serialised.
func (p *Plugin) Undo(doc step.Doc, currentSelection string) (history.PopResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, ok := history.Undo(p.state, doc, currentSelection, p.opts)
	if !ok {
		return history.PopResult{}, ErrNothingToUndo
	}
	p.state = res.HistoryState
	p.log("undo: %s\n%s", Describe(res), prettySelection(res.Selection))
	return res, nil
}

// Redo pops the most recent undone event, returning the transform to
// re-apply and the selection to restore.
func (p *Plugin) Redo(doc step.Doc, currentSelection string) (history.PopResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, ok := history.Redo(p.state, doc, currentSelection, p.opts)
	if !ok {
		return history.PopResult{}, ErrNothingToRedo
	}
	p.state = res.HistoryState
	p.log("redo: %s\n%s", Describe(res), prettySelection(res.Selection))
	return res, nil
}

// UndoDepth reports how many events are available to undo.
func (p *Plugin) UndoDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.UndoDepth()
}

// RedoDepth reports how many events are available to redo.
func (p *Plugin) RedoDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.RedoDepth()
}

// CloseHistory prevents the next tracked transform from joining the
// current event, the way a host calls it before switching files or
// losing focus so an unrelated edit never merges into the wrong undo
// step.
func (p *Plugin) CloseHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = history.CloseHistory(p.state)
}

// Checkpoint is an opaque marker for UndoToCheckpoint, captured by
// CreateCheckpoint at some point in a session.
type Checkpoint struct {
	depth int
	at    time.Time
}

// CreateCheckpoint records the current undo depth so the session can
// later be rewound back to exactly this point with UndoToCheckpoint,
// the way an editor might mark "before this macro ran".
func (p *Plugin) CreateCheckpoint() Checkpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Checkpoint{depth: p.state.UndoDepth(), at: time.Now()}
}

// UndoToCheckpoint undoes events, one at a time, applying each
// reconstructed transform to doc in turn, until the undo depth
// returns to what it was when cp was created (or there is nothing
// left to undo). It returns the final document and the number of
// events undone.
func (p *Plugin) UndoToCheckpoint(doc step.Doc, currentSelection string, cp Checkpoint) (step.Doc, int, error) {
	undone := 0
	for {
		if p.UndoDepth() <= cp.depth {
			return doc, undone, nil
		}
		res, err := p.Undo(doc, currentSelection)
		if err != nil {
			return doc, undone, err
		}
		doc = res.Transform.Doc()
		undone++
	}
}

// prettySelection renders a popped event's restored selection as
// indented JSON for debug logging, the way a host formats any
// structured value it prints to a log rather than to the UI. A nil
// selection (the popped event carried none) logs as an empty object.
func prettySelection(sel step.Selection) string {
	if sel == nil {
		return "  {}"
	}
	return string(pretty.Pretty([]byte(sel.ToJSON())))
}

// Describe summarises a popped event for logging or a status line:
// how many steps it reconstructed and whether it carried a selection
// to restore.
func Describe(res history.PopResult) string {
	n := 0
	if res.Transform != nil {
		n = len(res.Transform.Steps)
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	if res.Selection == nil {
		return fmt.Sprintf("%d step%s, no selection to restore", n, plural)
	}
	return fmt.Sprintf("%d step%s, selection restored", n, plural)
}
