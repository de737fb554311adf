package suggest

import (
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/renderer/decoration"
)

// metaIgnoreUpdates marks a transaction that the suggestion state skips.
const metaIgnoreUpdates = "suggestIgnoreUpdates"

// IgnoreUpdates marks tr so that it does not update suggestion matches.
func IgnoreUpdates(tr *engine.Transaction) *engine.Transaction {
	return tr.SetMeta(metaIgnoreUpdates, true)
}

func shouldIgnoreUpdates(tr *engine.Transaction) bool {
	v, _ := tr.Meta(metaIgnoreUpdates).(bool)
	return v
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger. By default the logger of the editor state
// the plugin is created in is used.
func WithLogger(logger *zap.Logger) Option {
	return func(st *State) {
		if logger != nil {
			st.logger = logger
			st.loggerSet = true
		}
	}
}

// State tracks suggestion matches for one editor. It is created once per
// plugin and updated in place by every transaction.
//
// State is not safe for concurrent use; every method must be called from
// the goroutine that dispatches to the view.
type State struct {
	registry *registry
	matcher  *matcher
	view     *engine.View

	logger    *zap.Logger
	loggerSet bool

	prev    *Match
	next    *Match
	reasons ReasonMap
	ignored *decoration.Set

	removed              bool
	docChanged           bool
	ignoreNextExit       bool
	lastChangeFromAppend bool

	// Each callback pass runs at most once per computed ReasonMap.
	handledInline bool
	handledAppend bool
}

// NewState creates a suggestion state. Suggester names must be unique.
func NewState(suggesters []Suggester, opts ...Option) (*State, error) {
	st := &State{
		logger:  zap.NewNop(),
		ignored: decoration.Empty,
	}
	for _, opt := range opts {
		opt(st)
	}

	reg, err := newRegistry(suggesters...)
	if err != nil {
		return nil, err
	}
	st.registry = reg
	st.matcher = newMatcher(st.logger)
	return st, nil
}

// init binds the state to the editor state it starts in.
func (st *State) init(s *engine.EditorState) {
	if !st.loggerSet && s != nil {
		st.logger = s.Logger()
		st.matcher.logger = st.logger
	}
}

// Suggesters returns the registered suggesters in priority order.
func (st *State) Suggesters() []*Suggester {
	return st.registry.all()
}

// Match returns the live match: the next match, or the previous one while
// its exit is pending. Nil when there is none.
func (st *State) Match() *Match {
	if st.next != nil {
		return st.next
	}
	if st.prev != nil && st.reasons.Exit != nil {
		return st.prev
	}
	return nil
}

// Prev returns the match before the last processed transaction.
func (st *State) Prev() *Match {
	return st.prev
}

// Next returns the match after the last processed transaction.
func (st *State) Next() *Match {
	return st.next
}

// Reasons returns the classification of the last processed transaction.
func (st *State) Reasons() ReasonMap {
	return st.reasons
}

// DecorationSet returns the ignored-region decorations.
func (st *State) DecorationSet() *decoration.Set {
	return st.ignored
}

// Removed returns true if a removal is pending, see SetMarkRemoved.
func (st *State) Removed() bool {
	return st.removed
}

// View returns the view the plugin is attached to, or nil.
func (st *State) View() *engine.View {
	return st.view
}

// IgnoreNextExit skips the next exit callback that would run.
func (st *State) IgnoreNextExit() {
	st.ignoreNextExit = true
}

// SetMarkRemoved makes the next transaction update matches even if it
// changes neither the document nor the selection.
func (st *State) SetMarkRemoved() {
	st.removed = true
}

// AddSuggester registers a suggester, replacing one with the same name.
// The returned function removes it again.
func (st *State) AddSuggester(s Suggester) (func(), error) {
	previous, err := st.registry.replace(s)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		st.matcher.forget(previous)
	}

	// Once replaced again, the returned function no longer applies.
	added := st.registry.find(s.Name)
	return func() {
		if st.registry.find(added.Name) == added {
			st.RemoveSuggester(added.Name)
		}
	}, nil
}

// RemoveSuggester removes a suggester, its ignored regions and any live
// match it owns. Unknown names are ignored.
func (st *State) RemoveSuggester(name string) {
	s := st.registry.remove(name)
	if s == nil {
		return
	}
	st.matcher.forget(s)
	st.ClearIgnored(name)
	st.forgetMatches(s)
}

// forgetMatches drops the matches and reasons that belong to s.
func (st *State) forgetMatches(s *Suggester) {
	if st.prev != nil && st.prev.Suggester == s {
		st.prev = nil
	}
	if st.next != nil && st.next.Suggester == s {
		st.next = nil
	}
	if st.reasons.Change != nil && st.reasons.Change.Suggester == s {
		st.reasons.Change = nil
	}
	if st.reasons.Exit != nil && st.reasons.Exit.Suggester == s {
		st.reasons.Exit = nil
	}
}

// Apply updates matches and reasons for a transaction. s is the editor
// state the transaction produced.
func (st *State) Apply(tr *engine.Transaction, s *engine.EditorState) *State {
	if tr.DocChanged() {
		st.mapIgnored(tr)
	}

	if st.lastChangeFromAppend {
		st.lastChangeFromAppend = false
		return st
	}

	changed := tr.DocChanged() || tr.SelectionSet()
	if shouldIgnoreUpdates(tr) || (!changed && !st.removed) {
		return st
	}

	st.docChanged = tr.DocChanged()

	if st.reasons.Exit != nil {
		st.resetState()
	}

	st.prev = st.next

	// An ignored match is silenced for exits too.
	if st.prev != nil && st.ignoredAt(tr.Mapping().Map(st.prev.Range.From, 1), st.prev.Suggester) {
		st.prev = nil
	}

	st.updateReasons(tr, s)
	return st
}

func (st *State) resetState() {
	st.reasons = ReasonMap{}
	st.next = nil
	st.removed = false
	st.lastChangeFromAppend = false
}

func (st *State) updateReasons(tr *engine.Transaction, s *engine.EditorState) {
	sel := s.Selection()
	d := s.Doc()

	st.next = nil
	if rp, err := d.Resolve(sel.From()); err == nil {
		st.next = st.matcher.findFirst(rp, st.registry.suggesters, sel.Empty(), st.shouldIgnoreMatch)
	}

	st.reasons = classify(st.prev, st.next, s, tr.Mapping(), func(prev Match) *Match {
		return st.matcher.recheck(d, prev)
	})
	st.handledInline = false
	st.handledAppend = false

	if !st.reasons.Empty() {
		st.logger.Debug("suggest reasons",
			zap.Stringer("tr", tr.ID()),
			zap.Stringer("change", changeReasonOf(st.reasons)),
			zap.Stringer("exit", exitReasonOf(st.reasons)),
			zap.Bool("docChanged", st.docChanged),
		)
	}
}

// ChangeHandler runs the callbacks for the current ReasonMap. appendPass
// selects the suggesters that run from the AppendTransaction hook; the
// others run after the view update. Each pass runs at most once per
// ReasonMap.
func (st *State) ChangeHandler(tr *engine.Transaction, appendPass bool) {
	if appendPass {
		if st.handledAppend {
			return
		}
		st.handledAppend = true
	} else {
		if st.handledInline {
			return
		}
		st.handledInline = true
	}

	change, exit := st.reasons.Change, st.reasons.Exit
	if (change == nil && exit == nil) || !isValidMatch(st.Match()) {
		return
	}

	runChange := change != nil && change.Suggester.AppendTransaction == appendPass
	runExit := exit != nil && exit.Suggester.AppendTransaction == appendPass && st.shouldRunExit()
	if !runChange && !runExit {
		return
	}

	// A jump fires the exit of the abandoned match before the change of
	// the new one, whichever direction the cursor moved.
	if st.reasons.IsJump() {
		if runExit {
			st.fireExit(exit, tr)
		}
		if runChange {
			st.fireChange(change, tr)
		}
		if runExit {
			st.removed = false
		}
		return
	}

	if runChange {
		st.fireChange(change, tr)
	}
	if runExit {
		st.fireExit(exit, tr)
		st.removed = false
		if exit.Reason == ExitReasonInvalidSplit {
			st.reasons = ReasonMap{}
		}
	}
}

// shouldRunExit consumes the ignoreNextExit flag.
func (st *State) shouldRunExit() bool {
	if st.ignoreNextExit {
		st.ignoreNextExit = false
		return false
	}
	return true
}

func (st *State) fireChange(c *ChangeMatch, tr *engine.Transaction) {
	if c.Suggester.OnChange == nil {
		return
	}
	c.Suggester.OnChange(ChangeProps{Props: st.props(c.Match, c.Reason), Reason: c.Reason}, tr)
}

func (st *State) fireExit(e *ExitMatch, tr *engine.Transaction) {
	if e.Suggester.OnExit == nil {
		return
	}
	e.Suggester.OnExit(ExitProps{Props: st.props(e.Match, ChangeReasonNone), Reason: e.Reason}, tr)
}

// props builds the callback payload for a match.
func (st *State) props(m Match, reason ChangeReason) Props {
	var current *engine.EditorState
	if st.view != nil {
		current = st.view.State()
	}

	p := Props{Match: m, View: st.view, state: st}
	p.Stage = m.Suggester.GetStage(m, reason, current)
	if m.Suggester.CreateCommand != nil {
		p.Command = m.Suggester.CreateCommand(p)
	}
	return p
}

// activeProps returns props for the live match, or false without one.
func (st *State) activeProps() (Props, bool) {
	match := st.Match()
	if !isValidMatch(match) {
		return Props{}, false
	}
	return st.props(*match, changeReasonOf(st.reasons)), true
}

func changeReasonOf(r ReasonMap) ChangeReason {
	if r.Change == nil {
		return ChangeReasonNone
	}
	return r.Change.Reason
}

func exitReasonOf(r ReasonMap) ExitReason {
	if r.Exit == nil {
		return ExitReasonNone
	}
	return r.Exit.Reason
}
