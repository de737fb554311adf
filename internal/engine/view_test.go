package engine

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/suggest/internal/engine/doc"
	"github.com/dshills/suggest/internal/renderer/decoration"
)

type recordingView struct {
	updates   int
	destroyed bool
	onUpdate  func(v *View, prev *EditorState)
}

func (r *recordingView) Update(v *View, prev *EditorState) {
	r.updates++
	if r.onUpdate != nil {
		r.onUpdate(v, prev)
	}
}

func (r *recordingView) Destroy() {
	r.destroyed = true
}

func newTestView(t *testing.T, d *doc.Doc, plugins ...*Plugin) *View {
	t.Helper()
	s, err := Create(Config{Doc: d, Plugins: plugins})
	require.NoError(t, err)
	return NewView(s)
}

// ============================================================================
// Input
// ============================================================================

func TestViewTypeText(t *testing.T) {
	v := newTestView(t, nil)

	require.NoError(t, v.TypeText("héllo"))
	assert.Equal(t, "héllo", v.State().Doc().Text())
	assert.Equal(t, Cursor(1+len("héllo")), v.State().Selection())
}

func TestViewBackspace(t *testing.T) {
	v := newTestView(t, nil)
	require.NoError(t, v.TypeText("aé"))

	require.NoError(t, v.Backspace())
	assert.Equal(t, "a", v.State().Doc().Text(), "removes the whole cluster")
	assert.Equal(t, Cursor(2), v.State().Selection())

	require.NoError(t, v.Backspace())
	require.NoError(t, v.Backspace())
	assert.Equal(t, "", v.State().Doc().Text())
	assert.Equal(t, Cursor(1), v.State().Selection())
}

func TestViewBackspaceSelection(t *testing.T) {
	v := newTestView(t, doc.FromText("abcdef"))
	require.NoError(t, v.Select(2, 5))

	require.NoError(t, v.Backspace())
	assert.Equal(t, "aef", v.State().Doc().Text())
}

func TestViewSelectOutOfRange(t *testing.T) {
	v := newTestView(t, doc.FromText("abc"))
	assert.ErrorIs(t, v.SetCursor(99), ErrSelectionOutOfRange)
}

func TestViewHandleTextInput(t *testing.T) {
	var got []string
	p := NewPlugin(PluginSpec{
		HandleTextInput: func(_ *View, from, to int, text string) bool {
			got = append(got, text)
			return text == "x"
		},
	})
	v := newTestView(t, nil, p)

	require.NoError(t, v.TypeText("axb"))
	assert.Equal(t, []string{"a", "x", "b"}, got)
	assert.Equal(t, "ab", v.State().Doc().Text())
}

func TestViewKeyDown(t *testing.T) {
	var seen []tcell.Key
	p := NewPlugin(PluginSpec{
		HandleKeyDown: func(_ *View, ev *tcell.EventKey) bool {
			seen = append(seen, ev.Key())
			return ev.Key() == tcell.KeyEnter
		},
	})
	v := newTestView(t, nil, p)

	assert.True(t, v.KeyDown(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.False(t, v.KeyDown(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.False(t, v.KeyDown(nil))
	assert.Equal(t, []tcell.Key{tcell.KeyEnter, tcell.KeyTab}, seen)
}

// ============================================================================
// Plugin views
// ============================================================================

func TestViewUpdatesPluginViews(t *testing.T) {
	rv := &recordingView{}
	p := NewPlugin(PluginSpec{
		View: func(*View) PluginView { return rv },
	})
	v := newTestView(t, nil, p)

	require.NoError(t, v.TypeText("ab"))
	assert.Equal(t, 2, rv.updates)

	v.Destroy()
	assert.True(t, rv.destroyed)
	assert.True(t, v.Destroyed())
	assert.ErrorIs(t, v.InsertText("c"), ErrViewDestroyed)
}

func TestViewReentrantDispatch(t *testing.T) {
	rv := &recordingView{}
	rv.onUpdate = func(v *View, _ *EditorState) {
		// Close a bracket the first time one is typed.
		if v.State().Doc().Text() != "(" {
			return
		}
		tr := v.State().Tr()
		require.NoError(t, tr.Insert(2, ")"))
		require.NoError(t, v.Dispatch(tr))
	}
	p := NewPlugin(PluginSpec{
		View: func(*View) PluginView { return rv },
	})
	v := newTestView(t, nil, p)

	require.NoError(t, v.InsertText("("))
	assert.Equal(t, "()", v.State().Doc().Text())
	assert.Equal(t, 2, rv.updates)
}

func TestViewDecorationsMerged(t *testing.T) {
	a := NewPlugin(PluginSpec{
		Key: NewPluginKey("a"),
		Decorations: func(*EditorState) *decoration.Set {
			return decoration.NewSet(decoration.Inline(3, 4, decoration.Attrs{NodeName: "span"}, nil))
		},
	})
	b := NewPlugin(PluginSpec{
		Key: NewPluginKey("b"),
		Decorations: func(*EditorState) *decoration.Set {
			return decoration.NewSet(decoration.Inline(1, 2, decoration.Attrs{NodeName: "span"}, nil))
		},
	})
	v := newTestView(t, doc.FromText("abcd"), a, b)

	all := v.Decorations().All()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].From)
	assert.Equal(t, 3, all[1].From)
}
