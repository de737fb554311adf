package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/suggest/internal/engine/doc"
	"github.com/dshills/suggest/internal/engine/transform"
)

// MetaAppendedTransaction is set on transactions appended by a plugin's
// AppendTransaction hook. Its value is the root transaction's ID.
const MetaAppendedTransaction = "appendedTransaction"

// Step is a text replacement applied by a transaction.
type Step struct {
	From int    // Start of the replaced range
	To   int    // End of the replaced range
	Text string // Replacement text
}

// StepMap returns the position map of the step.
func (s Step) StepMap() transform.StepMap {
	return transform.NewStepMap(s.From, s.To-s.From, len(s.Text))
}

// String returns a human-readable representation of the step.
func (s Step) String() string {
	switch {
	case s.From == s.To:
		return fmt.Sprintf("insert %q at %d", s.Text, s.From)
	case s.Text == "":
		return fmt.Sprintf("delete [%d,%d)", s.From, s.To)
	default:
		return fmt.Sprintf("replace [%d,%d) with %q", s.From, s.To, s.Text)
	}
}

// Transaction accumulates steps, a selection, and metadata against the
// state it was created from. Applying it produces a new state.
type Transaction struct {
	id     uuid.UUID
	before *doc.Doc

	doc     *doc.Doc
	docs    []*doc.Doc
	steps   []Step
	mapping *transform.Mapping

	selection    Selection
	selectionSet bool

	meta map[string]any
}

func newTransaction(s *EditorState) *Transaction {
	return &Transaction{
		id:        uuid.New(),
		before:    s.doc,
		doc:       s.doc,
		mapping:   transform.NewMapping(),
		selection: s.selection,
		meta:      make(map[string]any),
	}
}

// ID returns the transaction's unique identifier.
func (tr *Transaction) ID() uuid.UUID {
	return tr.id
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *doc.Doc {
	return tr.before
}

// Doc returns the document after all steps so far.
func (tr *Transaction) Doc() *doc.Doc {
	return tr.doc
}

// Docs returns the document before each step.
func (tr *Transaction) Docs() []*doc.Doc {
	out := make([]*doc.Doc, len(tr.docs))
	copy(out, tr.docs)
	return out
}

// Steps returns the applied steps in order.
func (tr *Transaction) Steps() []Step {
	out := make([]Step, len(tr.steps))
	copy(out, tr.steps)
	return out
}

// Mapping returns the position mapping of all steps so far.
func (tr *Transaction) Mapping() *transform.Mapping {
	return tr.mapping
}

// DocChanged returns true if the transaction has any steps.
func (tr *Transaction) DocChanged() bool {
	return len(tr.steps) > 0
}

// Selection returns the transaction's current selection. Unless it was set
// explicitly, this is the starting selection mapped through every step.
func (tr *Transaction) Selection() Selection {
	return tr.selection
}

// SelectionSet returns true if SetSelection was called.
func (tr *Transaction) SelectionSet() bool {
	return tr.selectionSet
}

// Replace replaces [from, to) with text.
func (tr *Transaction) Replace(from, to int, text string) error {
	next, err := tr.doc.ReplaceText(from, to, text)
	if err != nil {
		return fmt.Errorf("transaction step %d: %w", len(tr.steps), err)
	}

	step := Step{From: from, To: to, Text: text}
	tr.docs = append(tr.docs, tr.doc)
	tr.steps = append(tr.steps, step)
	tr.doc = next

	sm := step.StepMap()
	tr.mapping.AppendMap(sm)
	tr.selection = tr.selection.Map(sm)
	return nil
}

// Insert inserts text at pos.
func (tr *Transaction) Insert(pos int, text string) error {
	return tr.Replace(pos, pos, text)
}

// Delete deletes [from, to).
func (tr *Transaction) Delete(from, to int) error {
	return tr.Replace(from, to, "")
}

// InsertText replaces the current selection with text.
// The cursor ends up after the inserted text.
func (tr *Transaction) InsertText(text string) error {
	from, to := tr.selection.From(), tr.selection.To()
	if err := tr.Replace(from, to, text); err != nil {
		return err
	}
	return tr.SetSelection(Cursor(from + len(text)))
}

// SetSelection sets the selection. Both ends must lie inside the document.
func (tr *Transaction) SetSelection(sel Selection) error {
	size := tr.doc.Size()
	if sel.Anchor < 0 || sel.Head < 0 || sel.Anchor > size || sel.Head > size {
		return fmt.Errorf("set %s (size %d): %w", sel, size, ErrSelectionOutOfRange)
	}
	tr.selection = sel
	tr.selectionSet = true
	return nil
}

// SetMeta stores a metadata value and returns the transaction for chaining.
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	tr.meta[key] = value
	return tr
}

// Meta returns a metadata value, or nil.
func (tr *Transaction) Meta(key string) any {
	return tr.meta[key]
}

// HasMeta returns true if key has been set.
func (tr *Transaction) HasMeta(key string) bool {
	_, ok := tr.meta[key]
	return ok
}

// Changed returns true if the transaction changes the document, sets the
// selection, or carries metadata.
func (tr *Transaction) Changed() bool {
	return tr.DocChanged() || tr.selectionSet || len(tr.meta) > 0
}
