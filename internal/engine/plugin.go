package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/suggest/internal/renderer/decoration"
)

// PluginKey identifies a plugin and gives access to its state field.
type PluginKey struct {
	name string
}

// NewPluginKey creates a plugin key.
func NewPluginKey(name string) *PluginKey {
	return &PluginKey{name: name}
}

// Name returns the key's name.
func (k *PluginKey) Name() string {
	return k.name
}

// State returns the plugin's state field in s, or nil.
func (k *PluginKey) State(s *EditorState) any {
	if s == nil {
		return nil
	}
	return s.fields[k]
}

// Get returns the plugin registered under this key in s, or nil.
func (k *PluginKey) Get(s *EditorState) *Plugin {
	if s == nil {
		return nil
	}
	for _, p := range s.plugins {
		if p.key == k {
			return p
		}
	}
	return nil
}

// StateField describes a plugin's state.
type StateField struct {
	// Init creates the initial value when a state is created.
	Init func(s *EditorState) any

	// Apply computes the next value from a transaction. newState is only
	// partially built: its doc and selection are final, plugin fields
	// after this one are not.
	Apply func(tr *Transaction, value any, oldState, newState *EditorState) any
}

// PluginView is created once per view and notified after state updates.
type PluginView interface {
	// Update is called after the view's state changed. prev is the state
	// before the update.
	Update(v *View, prev *EditorState)

	// Destroy is called when the view is destroyed.
	Destroy()
}

// PluginSpec describes a plugin's behaviour. Every hook is optional.
type PluginSpec struct {
	// Key identifies the plugin. A key is created if none is given.
	Key *PluginKey

	// State is the plugin's state field.
	State *StateField

	// AppendTransaction may return a follow-up transaction after trs
	// were applied. It receives only the transactions it has not seen yet.
	AppendTransaction func(trs []*Transaction, oldState, newState *EditorState) *Transaction

	// View creates the plugin's per-view object.
	View func(v *View) PluginView

	// Decorations returns decorations to render for the state.
	Decorations func(s *EditorState) *decoration.Set

	// HandleKeyDown intercepts a raw key event. Returning true stops
	// further handling.
	HandleKeyDown func(v *View, ev *tcell.EventKey) bool

	// HandleTextInput intercepts text about to replace [from, to).
	// Returning true suppresses the insertion.
	HandleTextInput func(v *View, from, to int, text string) bool
}

// Plugin is an editor extension.
type Plugin struct {
	key  *PluginKey
	spec PluginSpec
}

// NewPlugin creates a plugin from its spec.
func NewPlugin(spec PluginSpec) *Plugin {
	key := spec.Key
	if key == nil {
		key = NewPluginKey("plugin")
	}
	return &Plugin{key: key, spec: spec}
}

// Key returns the plugin's key.
func (p *Plugin) Key() *PluginKey {
	return p.key
}

// Spec returns the plugin's spec.
func (p *Plugin) Spec() PluginSpec {
	return p.spec
}
