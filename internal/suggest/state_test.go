package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/engine/doc"
)

// recorder collects callback invocations across suggesters.
type recorder struct {
	changes []ChangeProps
	exits   []ExitProps
	events  []string
}

func (r *recorder) track(s Suggester) Suggester {
	s.OnChange = func(p ChangeProps, _ *engine.Transaction) {
		r.changes = append(r.changes, p)
		r.events = append(r.events, fmt.Sprintf("change:%s:%s", p.Name(), p.Reason))
	}
	s.OnExit = func(p ExitProps, _ *engine.Transaction) {
		r.exits = append(r.exits, p)
		r.events = append(r.events, fmt.Sprintf("exit:%s:%s", p.Name(), p.Reason))
	}
	return s
}

func (r *recorder) changeReasons() []ChangeReason {
	out := make([]ChangeReason, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Reason
	}
	return out
}

type fixture struct {
	view  *engine.View
	state *State
}

func newFixture(t *testing.T, d *doc.Doc, opts []engine.Option, suggesters ...Suggester) fixture {
	t.Helper()
	p, err := Suggest(suggesters...)
	require.NoError(t, err)

	s, err := engine.Create(engine.Config{Doc: d, Plugins: []*engine.Plugin{p}}, opts...)
	require.NoError(t, err)

	st := GetSuggestPluginState(s)
	require.NotNil(t, st)
	return fixture{view: engine.NewView(s), state: st}
}

// ============================================================================
// Entering, editing and leaving a match
// ============================================================================

func TestTriggerStartsMatch(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))

	require.NoError(t, f.view.TypeText("@"))

	require.Len(t, r.changes, 1)
	assert.Equal(t, ChangeReasonStart, r.changes[0].Reason)
	assert.Equal(t, "", r.changes[0].QueryText.Full)
	assert.Equal(t, StageNew, r.changes[0].Stage)
	assert.Empty(t, r.exits)
}

func TestTypingQueryThenSpaceExits(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))

	require.NoError(t, f.view.TypeText("@suggest "))

	assert.Len(t, r.changes, 8)
	for _, c := range r.changes[1:] {
		assert.Equal(t, ChangeReasonText, c.Reason)
		assert.Equal(t, StageEdit, c.Stage)
	}
	assert.Equal(t, "suggest", r.changes[7].QueryText.Full)

	require.Len(t, r.exits, 1)
	assert.Equal(t, "suggest", r.exits[0].QueryText.Full)
	assert.Equal(t, ExitReasonMoveEnd, r.exits[0].Reason)
}

func TestMatchOffsetSuppressesShortQueries(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@", MatchOffset: 1}))

	require.NoError(t, f.view.TypeText("@"))
	assert.Empty(t, r.changes)
	assert.Nil(t, f.state.Match())

	require.NoError(t, f.view.TypeText("a"))
	require.Len(t, r.changes, 1)
	assert.Equal(t, ChangeReasonStart, r.changes[0].Reason)
}

func TestDeletingTriggerRemovesMatch(t *testing.T) {
	for _, offset := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("offset %d", offset), func(t *testing.T) {
			r := &recorder{}
			f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@", MatchOffset: offset}))

			require.NoError(t, f.view.TypeText("@abc"))
			for i := 0; i < 4; i++ {
				require.NoError(t, f.view.Backspace())
			}
			assert.Equal(t, "", f.view.State().Doc().Text())

			require.Len(t, r.exits, 1)
			assert.Equal(t, ExitReasonRemoved, r.exits[0].Reason)

			// No change fires after the exit.
			last := r.events[len(r.events)-1]
			assert.Equal(t, "exit:at:removed", last)
		})
	}
}

func TestHigherPriorityWins(t *testing.T) {
	for i := 0; i < 5; i++ {
		r := &recorder{}
		f := newFixture(t, nil, nil,
			r.track(Suggester{Name: "low", Char: "@", Priority: 10}),
			r.track(Suggester{Name: "high", Char: "@", Priority: 100}),
		)

		require.NoError(t, f.view.TypeText("@ab"))
		require.Len(t, r.changes, 3)
		for _, c := range r.changes {
			assert.Equal(t, "high", c.Name())
		}
	}
}

func TestEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil,
		r.track(Suggester{Name: "first", Char: "@"}),
		r.track(Suggester{Name: "second", Char: "@"}),
	)

	require.NoError(t, f.view.TypeText("@"))
	require.Len(t, r.changes, 1)
	assert.Equal(t, "first", r.changes[0].Name())
}

func TestDuplicateNamesRejected(t *testing.T) {
	_, err := Suggest(Suggester{Name: "at", Char: "@"}, Suggester{Name: "at", Char: "#"})
	assert.ErrorIs(t, err, ErrDuplicateSuggester)

	_, err = Suggest(Suggester{Char: "@"})
	assert.ErrorIs(t, err, ErrInvalidSuggester)

	_, err = Suggest(Suggester{Name: "at"})
	assert.ErrorIs(t, err, ErrInvalidSuggester)
}

// ============================================================================
// Reasons
// ============================================================================

func TestMoveAndSelectionInside(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, doc.FromText("@abcd"), nil, r.track(Suggester{Name: "at", Char: "@"}))

	require.NoError(t, f.view.SetCursor(3))
	require.NoError(t, f.view.SetCursor(4))
	require.NoError(t, f.view.Select(5, 2))

	assert.Equal(t, []ChangeReason{
		ChangeReasonStart,
		ChangeReasonMove,
		ChangeReasonSelectionInside,
	}, r.changeReasons())
	assert.Empty(t, r.exits)
}

func TestExitReasons(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		edit   func(v *engine.View) error
		want   ExitReason
		full   string
	}{
		{
			name: "move start", text: "@ab", cursor: 3,
			edit: func(v *engine.View) error { return v.SetCursor(1) },
			want: ExitReasonMoveStart, full: "ab",
		},
		{
			name: "move end", text: "@ab cd", cursor: 3,
			edit: func(v *engine.View) error { return v.SetCursor(6) },
			want: ExitReasonMoveEnd, full: "ab",
		},
		{
			name: "selection outside", text: "@ab", cursor: 3,
			edit: func(v *engine.View) error { return v.Select(0, 3) },
			want: ExitReasonSelectionOutside, full: "ab",
		},
		{
			name: "end", text: "@abcd", cursor: 4,
			edit: func(v *engine.View) error { return v.InsertText("-") },
			want: ExitReasonEnd, full: "ab",
		},
		{
			name: "split", text: "@abcd", cursor: 4,
			edit: func(v *engine.View) error { return v.InsertText("x y") },
			want: ExitReasonSplit, full: "abx",
		},
		{
			name: "invalid split", text: "@abc", cursor: 2,
			edit: func(v *engine.View) error { return v.InsertText(" ") },
			want: ExitReasonInvalidSplit, full: "abc",
		},
		{
			name: "prefix deleted", text: "x @abc", cursor: 7,
			edit: func(v *engine.View) error {
				tr := v.State().Tr()
				if err := tr.Delete(2, 3); err != nil {
					return err
				}
				return v.Dispatch(tr)
			},
			want: ExitReasonInvalidSplit, full: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			f := newFixture(t, doc.FromText(tt.text), nil, r.track(Suggester{Name: "at", Char: "@"}))

			require.NoError(t, f.view.SetCursor(tt.cursor))
			require.Len(t, r.changes, 1)

			require.NoError(t, tt.edit(f.view))
			require.Len(t, r.exits, 1)
			assert.Equal(t, tt.want, r.exits[0].Reason)
			assert.Equal(t, tt.full, r.exits[0].QueryText.Full)
			assert.Len(t, r.changes, 1)
		})
	}
}

func TestInvalidSplitClearsReasons(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, doc.FromText("@abc"), nil, r.track(Suggester{Name: "at", Char: "@"}))

	require.NoError(t, f.view.SetCursor(2))
	require.NoError(t, f.view.InsertText(" "))
	require.Len(t, r.exits, 1)

	assert.True(t, f.state.Reasons().Empty())
	assert.Nil(t, f.state.Match())
}

func TestJumpFiresExitBeforeChange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{
			name: "forward", from: 3, to: 7,
			want: []string{"change:at:start", "exit:at:jump-forward", "change:at:jump-forward"},
		},
		{
			name: "backward", from: 7, to: 3,
			want: []string{"change:at:start", "exit:at:jump-backward", "change:at:jump-backward"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			f := newFixture(t, doc.FromText("@ab @cd"), nil, r.track(Suggester{Name: "at", Char: "@"}))

			require.NoError(t, f.view.SetCursor(tt.from))
			require.NoError(t, f.view.SetCursor(tt.to))

			assert.Equal(t, tt.want, r.events)
			require.Len(t, r.changes, 2)
			assert.Equal(t, StageNew, r.changes[1].Stage)
			assert.NotEqual(t, r.exits[0].Range.From, r.changes[1].Range.From)
		})
	}
}

func TestJumpBetweenSuggesters(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, doc.FromText("@ab #cd"), nil,
		r.track(Suggester{Name: "at", Char: "@"}),
		r.track(Suggester{Name: "tag", Char: "#"}),
	)

	require.NoError(t, f.view.SetCursor(3))
	require.NoError(t, f.view.SetCursor(7))

	assert.Equal(t, []string{
		"change:at:start",
		"exit:at:jump-forward",
		"change:tag:jump-forward",
	}, r.events)
}

// ============================================================================
// Flags and passes
// ============================================================================

func TestIgnoreNextExit(t *testing.T) {
	r := &recorder{}
	armed := false
	s := r.track(Suggester{Name: "at", Char: "@"})
	onChange := s.OnChange
	s.OnChange = func(p ChangeProps, tr *engine.Transaction) {
		onChange(p, tr)
		if !armed {
			armed = true
			p.IgnoreNextExit()
		}
	}
	f := newFixture(t, nil, nil, s)

	require.NoError(t, f.view.TypeText("@a @b "))

	require.Len(t, r.exits, 1, "only the first exit is skipped")
	assert.Equal(t, "b", r.exits[0].QueryText.Full)
}

func TestAppendTransactionPass(t *testing.T) {
	r := &recorder{}
	s := r.track(Suggester{Name: "at", Char: "@", AppendTransaction: true})
	onChange := s.OnChange
	s.OnChange = func(p ChangeProps, tr *engine.Transaction) {
		onChange(p, tr)
		if p.Reason == ChangeReasonStart {
			require.NoError(t, tr.Insert(p.Range.End, "x"))
		}
	}
	f := newFixture(t, nil, nil, s)

	require.NoError(t, f.view.TypeText("@"))
	assert.Equal(t, "@x", f.view.State().Doc().Text())
	assert.Equal(t, engine.Cursor(3), f.view.State().Selection())
	require.Len(t, r.changes, 1)

	require.NoError(t, f.view.TypeText("y"))
	assert.Equal(t, "@xy", f.view.State().Doc().Text())
	assert.Equal(t, []ChangeReason{ChangeReasonStart, ChangeReasonText}, r.changeReasons())
	assert.Equal(t, "xy", r.changes[1].QueryText.Full)
}

func TestInlineCallbackStepsAreDispatched(t *testing.T) {
	r := &recorder{}
	s := r.track(Suggester{Name: "at", Char: "@"})
	onChange := s.OnChange
	s.OnChange = func(p ChangeProps, tr *engine.Transaction) {
		onChange(p, tr)
		if p.Reason == ChangeReasonStart {
			require.NoError(t, tr.Insert(p.Range.End, "me"))
		}
	}
	f := newFixture(t, nil, nil, s)

	require.NoError(t, f.view.TypeText("@"))
	assert.Equal(t, "@me", f.view.State().Doc().Text())
	assert.Equal(t, []ChangeReason{ChangeReasonStart, ChangeReasonText}, r.changeReasons())
}

func TestUnchangedTransactionIsNoop(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))
	require.NoError(t, f.view.TypeText("@ab"))

	prev, next, reasons := f.state.Prev(), f.state.Next(), f.state.Reasons()

	for i := 0; i < 2; i++ {
		tr := f.view.State().Tr().SetMeta("noop", true)
		f.state.Apply(tr, f.view.State())

		assert.Same(t, prev, f.state.Prev())
		assert.Same(t, next, f.state.Next())
		assert.Equal(t, reasons, f.state.Reasons())
	}

	// Dispatching it does not re-fire stale callbacks either.
	require.NoError(t, f.view.Dispatch(f.view.State().Tr().SetMeta("noop", true)))
	assert.Len(t, r.changes, 3)
}

func TestSetMarkRemovedForcesUpdate(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))
	require.NoError(t, f.view.TypeText("@ab"))

	f.state.SetMarkRemoved()
	assert.True(t, f.state.Removed())

	prevNext := f.state.Next()
	f.state.Apply(f.view.State().Tr(), f.view.State())
	assert.Same(t, prevNext, f.state.Prev(), "matches were recomputed")
	assert.True(t, f.state.Reasons().Empty(), "nothing changed")
}

func TestIgnoreUpdatesMeta(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))

	tr := f.view.State().Tr()
	require.NoError(t, tr.InsertText("@"))
	require.NoError(t, f.view.Dispatch(IgnoreUpdates(tr)))

	assert.Empty(t, r.changes)
	assert.Nil(t, f.state.Match())
}

// ============================================================================
// Failures
// ============================================================================

func TestFailingSuggesterIsSkippedWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := &recorder{}
	f := newFixture(t, nil, []engine.Option{engine.WithLogger(zap.New(core))},
		r.track(Suggester{Name: "broken", Char: "@", Priority: 100, SupportedCharacters: "["}),
		r.track(Suggester{Name: "at", Char: "@"}),
	)

	require.NoError(t, f.view.TypeText("@a"))

	require.Len(t, r.changes, 2)
	assert.Equal(t, "at", r.changes[0].Name())

	warnings := logs.FilterMessage("suggester match failed").All()
	require.NotEmpty(t, warnings)
	assert.Equal(t, "broken", warnings[0].ContextMap()["suggester"])
}

// ============================================================================
// Registry mutation
// ============================================================================

func TestAddAndRemoveSuggester(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil)

	dispose, err := AddSuggester(f.view.State(), r.track(Suggester{Name: "at", Char: "@"}))
	require.NoError(t, err)

	require.NoError(t, f.view.TypeText("@a "))
	assert.Len(t, r.changes, 2)

	dispose()
	assert.Empty(t, f.state.Suggesters())

	require.NoError(t, f.view.TypeText("@b"))
	assert.Len(t, r.changes, 2)

	assert.NoError(t, RemoveSuggester(f.view.State(), "missing"))
}

func TestStaleDisposerKeepsReplacement(t *testing.T) {
	f := newFixture(t, nil, nil)

	disposeFirst, err := f.state.AddSuggester(Suggester{Name: "at", Char: "@"})
	require.NoError(t, err)
	disposeSecond, err := f.state.AddSuggester(Suggester{Name: "at", Char: "#"})
	require.NoError(t, err)

	disposeFirst()
	require.Len(t, f.state.Suggesters(), 1)
	assert.Equal(t, "#", f.state.Suggesters()[0].Char)

	disposeSecond()
	assert.Empty(t, f.state.Suggesters())
}

func TestRemoveSuggesterDropsLiveMatch(t *testing.T) {
	r := &recorder{}
	f := newFixture(t, nil, nil, r.track(Suggester{Name: "at", Char: "@"}))

	require.NoError(t, f.view.TypeText("@ab"))
	require.NotNil(t, f.state.Match())

	f.state.RemoveSuggester("at")
	assert.Nil(t, f.state.Match())
	assert.True(t, f.state.Reasons().Empty())

	require.NoError(t, f.view.TypeText("c"))
	assert.Empty(t, r.exits)
	assert.Equal(t, []string{"change:at:start", "change:at:text", "change:at:text"}, r.events)
}

func TestAddSuggesterWithoutPlugin(t *testing.T) {
	s, err := engine.Create(engine.Config{})
	require.NoError(t, err)

	assert.Nil(t, GetSuggestPluginState(s))
	_, err = AddSuggester(s, Suggester{Name: "at", Char: "@"})
	assert.ErrorIs(t, err, ErrPluginNotFound)
	assert.ErrorIs(t, RemoveSuggester(s, "at"), ErrPluginNotFound)
}
