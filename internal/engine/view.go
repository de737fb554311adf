package engine

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/renderer/decoration"
)

// View owns the current editor state and routes input through plugins.
//
// A View is not safe for concurrent use. Plugin views may dispatch
// transactions from within Update; such dispatches are applied immediately.
type View struct {
	state       *EditorState
	pluginViews []PluginView
	destroyed   bool
	logger      *zap.Logger
}

// NewView creates a view for state and instantiates every plugin's view.
func NewView(state *EditorState) *View {
	v := &View{
		state:  state,
		logger: state.logger,
	}
	for _, p := range state.plugins {
		if p.spec.View == nil {
			continue
		}
		if pv := p.spec.View(v); pv != nil {
			v.pluginViews = append(v.pluginViews, pv)
		}
	}
	return v
}

// State returns the current state.
func (v *View) State() *EditorState {
	return v.state
}

// Dispatch applies a transaction to the current state, including any
// transactions appended by plugins, and updates the view.
func (v *View) Dispatch(tr *Transaction) error {
	if v.destroyed {
		return ErrViewDestroyed
	}

	next, trs, err := v.state.ApplyTransaction(tr)
	if err != nil {
		v.logger.Warn("dispatch failed", zap.Stringer("tr", tr.ID()), zap.Error(err))
		return err
	}
	if len(trs) > 1 {
		v.logger.Debug("dispatch appended transactions",
			zap.Stringer("tr", tr.ID()),
			zap.Int("appended", len(trs)-1),
		)
	}

	v.UpdateState(next)
	return nil
}

// UpdateState replaces the view's state and notifies plugin views.
func (v *View) UpdateState(s *EditorState) {
	prev := v.state
	v.state = s
	for _, pv := range v.pluginViews {
		pv.Update(v, prev)
	}
}

// InsertText replaces the selection with text. Plugins may intercept the
// input through HandleTextInput.
func (v *View) InsertText(text string) error {
	if v.destroyed {
		return ErrViewDestroyed
	}

	sel := v.state.selection
	for _, p := range v.state.plugins {
		if p.spec.HandleTextInput == nil {
			continue
		}
		if p.spec.HandleTextInput(v, sel.From(), sel.To(), text) {
			return nil
		}
	}

	tr := v.state.Tr()
	if err := tr.InsertText(text); err != nil {
		return err
	}
	return v.Dispatch(tr)
}

// TypeText inserts text one grapheme cluster at a time, as if typed.
func (v *View) TypeText(text string) error {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if err := v.InsertText(g.Str()); err != nil {
			return err
		}
	}
	return nil
}

// Backspace deletes the selection, or the grapheme cluster before the
// cursor. It does nothing at the start of a textblock.
func (v *View) Backspace() error {
	if v.destroyed {
		return ErrViewDestroyed
	}

	sel := v.state.selection
	tr := v.state.Tr()

	if !sel.Empty() {
		if err := tr.Delete(sel.From(), sel.To()); err != nil {
			return err
		}
		return v.Dispatch(tr)
	}

	rp, err := v.state.doc.Resolve(sel.Head)
	if err != nil {
		return err
	}
	if !rp.InTextblock() || rp.ParentOffset() == 0 {
		return nil
	}

	n := lastClusterLen(rp.TextBefore())
	if err := tr.Delete(sel.Head-n, sel.Head); err != nil {
		return err
	}
	return v.Dispatch(tr)
}

// SetCursor moves the cursor to pos.
func (v *View) SetCursor(pos int) error {
	return v.Select(pos, pos)
}

// Select sets the selection.
func (v *View) Select(anchor, head int) error {
	if v.destroyed {
		return ErrViewDestroyed
	}

	tr := v.state.Tr()
	if err := tr.SetSelection(NewSelection(anchor, head)); err != nil {
		return err
	}
	return v.Dispatch(tr)
}

// KeyDown offers a key event to every plugin in order and returns true if
// one of them handled it.
func (v *View) KeyDown(ev *tcell.EventKey) bool {
	if v.destroyed || ev == nil {
		return false
	}
	for _, p := range v.state.plugins {
		if p.spec.HandleKeyDown == nil {
			continue
		}
		if p.spec.HandleKeyDown(v, ev) {
			return true
		}
	}
	return false
}

// Decorations returns the decorations of every plugin for the current state.
func (v *View) Decorations() *decoration.Set {
	var sets []*decoration.Set
	for _, p := range v.state.plugins {
		if p.spec.Decorations == nil {
			continue
		}
		sets = append(sets, p.spec.Decorations(v.state))
	}
	return decoration.Merge(sets...)
}

// Destroy destroys every plugin view. Further dispatches fail.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	for _, pv := range v.pluginViews {
		pv.Destroy()
	}
	v.pluginViews = nil
}

// Destroyed returns true once Destroy has been called.
func (v *View) Destroyed() bool {
	return v.destroyed
}

func lastClusterLen(text string) int {
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n = len(g.Str())
	}
	return n
}
