package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/suggest/internal/engine/doc"
)

// counterPlugin counts applied transactions in its state field.
func counterPlugin(name string) *Plugin {
	return NewPlugin(PluginSpec{
		Key: NewPluginKey(name),
		State: &StateField{
			Init: func(*EditorState) any { return 0 },
			Apply: func(_ *Transaction, value any, _, _ *EditorState) any {
				return value.(int) + 1
			},
		},
	})
}

// ============================================================================
// Create
// ============================================================================

func TestCreateDefaults(t *testing.T) {
	s, err := Create(Config{})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Doc().Size())
	assert.Equal(t, Cursor(1), s.Selection())
	assert.NotNil(t, s.Logger())
}

func TestCreateSelectionOutOfRange(t *testing.T) {
	sel := Cursor(42)
	_, err := Create(Config{Doc: doc.FromText("abc"), Selection: &sel})
	assert.ErrorIs(t, err, ErrSelectionOutOfRange)
}

func TestCreateDuplicatePluginKey(t *testing.T) {
	key := NewPluginKey("dup")
	a := NewPlugin(PluginSpec{Key: key})
	b := NewPlugin(PluginSpec{Key: key})

	_, err := Create(Config{Plugins: []*Plugin{a, b}})
	assert.ErrorIs(t, err, ErrDuplicatePluginKey)
}

func TestCreateInitsPluginState(t *testing.T) {
	p := counterPlugin("counter")
	s, err := Create(Config{Plugins: []*Plugin{p}})
	require.NoError(t, err)

	assert.Equal(t, 0, p.Key().State(s))
	assert.Same(t, p, p.Key().Get(s))
	assert.Nil(t, NewPluginKey("other").Get(s))
}

// ============================================================================
// Apply
// ============================================================================

func TestApplyUpdatesDocSelectionAndFields(t *testing.T) {
	p := counterPlugin("counter")
	s, err := Create(Config{Doc: doc.FromText("hello"), Plugins: []*Plugin{p}})
	require.NoError(t, err)

	tr := s.Tr()
	require.NoError(t, tr.Insert(6, " world"))
	next, err := s.Apply(tr)
	require.NoError(t, err)

	assert.Equal(t, "hello world", next.Doc().Text())
	assert.Equal(t, 1, p.Key().State(next))
	assert.Equal(t, 0, p.Key().State(s), "old state is untouched")
}

func TestApplyMismatchedTransaction(t *testing.T) {
	s, err := Create(Config{Doc: doc.FromText("abc")})
	require.NoError(t, err)

	tr := s.Tr()
	require.NoError(t, tr.Insert(1, "x"))
	next, err := s.Apply(tr)
	require.NoError(t, err)

	_, err = next.Apply(tr)
	assert.ErrorIs(t, err, ErrMismatchedTransaction)
}

func TestApplyTransactionAppendLoop(t *testing.T) {
	var appenderSaw, observerSaw [][]*Transaction

	// Appends a single "!" for every root transaction it sees.
	appender := NewPlugin(PluginSpec{
		Key: NewPluginKey("appender"),
		AppendTransaction: func(trs []*Transaction, _, newState *EditorState) *Transaction {
			appenderSaw = append(appenderSaw, trs)
			for _, tr := range trs {
				if tr.HasMeta(MetaAppendedTransaction) {
					return nil
				}
			}
			tr := newState.Tr()
			if err := tr.Insert(newState.Doc().Size()-1, "!"); err != nil {
				return nil
			}
			return tr
		},
	})
	observer := NewPlugin(PluginSpec{
		Key: NewPluginKey("observer"),
		AppendTransaction: func(trs []*Transaction, _, _ *EditorState) *Transaction {
			observerSaw = append(observerSaw, trs)
			return nil
		},
	})
	counter := counterPlugin("counter")

	s, err := Create(Config{
		Doc:     doc.FromText("hi"),
		Plugins: []*Plugin{appender, observer, counter},
	})
	require.NoError(t, err)

	root := s.Tr()
	require.NoError(t, root.Insert(3, "?"))

	next, trs, err := s.ApplyTransaction(root)
	require.NoError(t, err)

	assert.Equal(t, "hi?!", next.Doc().Text())
	require.Len(t, trs, 2)
	assert.Same(t, root, trs[0])
	assert.Equal(t, root.ID(), trs[1].Meta(MetaAppendedTransaction))
	assert.Equal(t, 2, counter.Key().State(next))

	// Each hook runs once and sees every transaction exactly once.
	require.Len(t, appenderSaw, 1)
	assert.Equal(t, []*Transaction{root}, appenderSaw[0])
	require.Len(t, observerSaw, 1)
	assert.Equal(t, trs, observerSaw[0])
}

// ============================================================================
// Transaction
// ============================================================================

func TestTransactionMapsSelection(t *testing.T) {
	sel := Cursor(4)
	s, err := Create(Config{Doc: doc.FromText("abcdef"), Selection: &sel})
	require.NoError(t, err)

	tr := s.Tr()
	require.NoError(t, tr.Insert(1, "xy"))
	assert.Equal(t, Cursor(6), tr.Selection())
	assert.False(t, tr.SelectionSet())

	require.NoError(t, tr.Delete(1, 3))
	assert.Equal(t, Cursor(4), tr.Selection())
	assert.Len(t, tr.Steps(), 2)
	assert.Len(t, tr.Docs(), 2)
	assert.Equal(t, 2, tr.Mapping().Len())
}

func TestTransactionInsertTextReplacesSelection(t *testing.T) {
	sel := NewSelection(2, 5)
	s, err := Create(Config{Doc: doc.FromText("abcdef"), Selection: &sel})
	require.NoError(t, err)

	tr := s.Tr()
	require.NoError(t, tr.InsertText("Z"))

	assert.Equal(t, "aZef", tr.Doc().Text())
	assert.Equal(t, Cursor(3), tr.Selection())
	assert.True(t, tr.SelectionSet())
}

func TestTransactionErrors(t *testing.T) {
	s, err := Create(Config{Doc: doc.New(doc.Paragraph("ab"), doc.Paragraph("cd"))})
	require.NoError(t, err)

	tr := s.Tr()
	assert.ErrorIs(t, tr.Replace(2, 6, ""), doc.ErrCrossesBlocks)
	assert.ErrorIs(t, tr.SetSelection(Cursor(100)), ErrSelectionOutOfRange)
	assert.False(t, tr.Changed())

	tr.SetMeta("k", true)
	assert.True(t, tr.Changed())
	assert.Equal(t, true, tr.Meta("k"))
}
