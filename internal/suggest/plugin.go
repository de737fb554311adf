package suggest

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine"
)

// PluginKey identifies the suggest plugin.
var PluginKey = engine.NewPluginKey("suggest")

// Suggest creates the suggest plugin for the given suggesters.
func Suggest(suggesters ...Suggester) (*engine.Plugin, error) {
	return NewPlugin(suggesters)
}

// NewPlugin creates the suggest plugin with options.
func NewPlugin(suggesters []Suggester, opts ...Option) (*engine.Plugin, error) {
	st, err := NewState(suggesters, opts...)
	if err != nil {
		return nil, err
	}
	return st.plugin(), nil
}

// GetSuggestPluginState returns the suggestion state of s, or nil if the
// suggest plugin is not installed.
func GetSuggestPluginState(s *engine.EditorState) *State {
	st, _ := PluginKey.State(s).(*State)
	return st
}

// AddSuggester adds a suggester to the plugin installed in s and returns a
// function that removes it again.
func AddSuggester(s *engine.EditorState, sug Suggester) (func(), error) {
	st := GetSuggestPluginState(s)
	if st == nil {
		return nil, ErrPluginNotFound
	}
	return st.AddSuggester(sug)
}

// RemoveSuggester removes a suggester from the plugin installed in s.
func RemoveSuggester(s *engine.EditorState, name string) error {
	st := GetSuggestPluginState(s)
	if st == nil {
		return ErrPluginNotFound
	}
	st.RemoveSuggester(name)
	return nil
}

func (st *State) plugin() *engine.Plugin {
	return engine.NewPlugin(engine.PluginSpec{
		Key: PluginKey,
		State: &engine.StateField{
			Init: func(s *engine.EditorState) any {
				st.init(s)
				return st
			},
			Apply: func(tr *engine.Transaction, value any, _, newState *engine.EditorState) any {
				return value.(*State).Apply(tr, newState)
			},
		},
		AppendTransaction: func(_ []*engine.Transaction, _, newState *engine.EditorState) *engine.Transaction {
			tr := newState.Tr()
			st.ChangeHandler(tr, true)
			if tr.DocChanged() || tr.SelectionSet() {
				st.lastChangeFromAppend = true
				return tr
			}
			return nil
		},
		View: func(v *engine.View) engine.PluginView {
			st.view = v
			return &stateView{st: st}
		},
		Decorations:     st.CreateDecorations,
		HandleKeyDown:   st.handleKeyDown,
		HandleTextInput: st.handleTextInput,
	})
}

// stateView runs the callbacks that do not use the append pass.
type stateView struct {
	st *State
}

func (sv *stateView) Update(v *engine.View, _ *engine.EditorState) {
	tr := v.State().Tr()
	sv.st.ChangeHandler(tr, false)
	if !tr.DocChanged() && !tr.SelectionSet() {
		return
	}
	if err := v.Dispatch(tr); err != nil {
		sv.st.logger.Warn("dispatch from suggest callback failed", zap.Error(err))
	}
}

func (sv *stateView) Destroy() {
	sv.st.view = nil
}

func (st *State) handleTextInput(_ *engine.View, from, to int, text string) bool {
	p, ok := st.activeProps()
	if !ok || p.Suggester.OnCharacterEntry == nil {
		return false
	}
	return p.Suggester.OnCharacterEntry(CharacterProps{Props: p, From: from, To: to, Text: text})
}

func (st *State) handleKeyDown(_ *engine.View, ev *tcell.EventKey) bool {
	p, ok := st.activeProps()
	if !ok || len(p.Suggester.KeyBindings) == 0 {
		return false
	}
	handler := p.Suggester.KeyBindings[KeyName(ev)]
	if handler == nil {
		return false
	}
	return handler(KeyProps{Props: p, Event: ev})
}

// KeyName returns the binding name of a key event: the tcell key name or
// the typed character, prefixed with "Shift-", "Alt-" and "Ctrl-" for the
// held modifiers.
func KeyName(ev *tcell.EventKey) string {
	var name string
	switch {
	case ev.Key() == tcell.KeyRune:
		name = string(ev.Rune())
	case tcell.KeyNames[ev.Key()] != "":
		name = tcell.KeyNames[ev.Key()]
	default:
		name = fmt.Sprintf("Key[%d]", ev.Key())
	}

	mods := ev.Modifiers()
	var prefix string
	if mods&tcell.ModShift != 0 {
		prefix += "Shift-"
	}
	if mods&tcell.ModAlt != 0 {
		prefix += "Alt-"
	}
	if mods&tcell.ModCtrl != 0 && !strings.HasPrefix(name, "Ctrl-") {
		prefix += "Ctrl-"
	}
	return prefix + name
}
