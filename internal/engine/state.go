package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine/doc"
)

// Config describes a new editor state.
type Config struct {
	// Doc is the initial document. An empty paragraph is used if nil.
	Doc *doc.Doc

	// Selection is the initial selection. Defaults to a cursor at the
	// start of the first textblock.
	Selection *Selection

	// Plugins are the active plugins in priority order.
	Plugins []*Plugin
}

// EditorState is an immutable snapshot of the editor: document, selection,
// and the state fields of every plugin.
type EditorState struct {
	doc       *doc.Doc
	selection Selection
	plugins   []*Plugin
	fields    map[*PluginKey]any
	logger    *zap.Logger
}

// Create creates a new editor state.
func Create(cfg Config, opts ...Option) (*EditorState, error) {
	s := &EditorState{
		doc:     cfg.Doc,
		plugins: append([]*Plugin(nil), cfg.Plugins...),
		fields:  make(map[*PluginKey]any),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.doc == nil {
		s.doc = doc.New()
	}

	if cfg.Selection != nil {
		sel := *cfg.Selection
		size := s.doc.Size()
		if sel.Anchor < 0 || sel.Head < 0 || sel.Anchor > size || sel.Head > size {
			return nil, fmt.Errorf("create state with %s (size %d): %w", sel, size, ErrSelectionOutOfRange)
		}
		s.selection = sel
	} else {
		s.selection = Cursor(s.doc.ContentStart(0))
	}

	seen := make(map[*PluginKey]bool, len(s.plugins))
	for _, p := range s.plugins {
		if seen[p.key] {
			return nil, fmt.Errorf("plugin %q: %w", p.key.name, ErrDuplicatePluginKey)
		}
		seen[p.key] = true
	}

	for _, p := range s.plugins {
		if p.spec.State != nil && p.spec.State.Init != nil {
			s.fields[p.key] = p.spec.State.Init(s)
		}
	}
	return s, nil
}

// Doc returns the document.
func (s *EditorState) Doc() *doc.Doc {
	return s.doc
}

// Selection returns the selection.
func (s *EditorState) Selection() Selection {
	return s.selection
}

// Plugins returns the active plugins.
func (s *EditorState) Plugins() []*Plugin {
	return append([]*Plugin(nil), s.plugins...)
}

// Logger returns the state's logger.
func (s *EditorState) Logger() *zap.Logger {
	return s.logger
}

// Tr starts a transaction from this state.
func (s *EditorState) Tr() *Transaction {
	return newTransaction(s)
}

// Apply applies a transaction and returns the resulting state,
// including any transactions appended by plugins.
func (s *EditorState) Apply(tr *Transaction) (*EditorState, error) {
	next, _, err := s.ApplyTransaction(tr)
	return next, err
}

// ApplyTransaction applies a root transaction, then repeatedly offers the
// new transactions to every plugin's AppendTransaction hook until none
// appends anything. It returns the final state and every transaction that
// was applied, root first.
func (s *EditorState) ApplyTransaction(root *Transaction) (*EditorState, []*Transaction, error) {
	newState, err := s.applyInner(root)
	if err != nil {
		return nil, nil, err
	}

	trs := []*Transaction{root}

	type seenState struct {
		state *EditorState
		n     int
	}
	var seen []seenState

	for {
		haveNew := false
		for i, p := range s.plugins {
			if p.spec.AppendTransaction == nil {
				continue
			}

			n, oldState := 0, s
			if seen != nil {
				n, oldState = seen[i].n, seen[i].state
			}

			var tr *Transaction
			if n < len(trs) {
				tr = p.spec.AppendTransaction(trs[n:], oldState, newState)
			}

			if tr != nil {
				tr.SetMeta(MetaAppendedTransaction, root.ID())
				if seen == nil {
					seen = make([]seenState, len(s.plugins))
					for j := range s.plugins {
						if j < i {
							seen[j] = seenState{state: newState, n: len(trs)}
						} else {
							seen[j] = seenState{state: s, n: 0}
						}
					}
				}
				trs = append(trs, tr)
				newState, err = newState.applyInner(tr)
				if err != nil {
					return nil, nil, fmt.Errorf("appended by plugin %q: %w", p.key.name, err)
				}
				haveNew = true
			}

			if seen != nil {
				seen[i] = seenState{state: newState, n: len(trs)}
			}
		}

		if !haveNew {
			return newState, trs, nil
		}
	}
}

// applyInner applies a single transaction without running append hooks.
func (s *EditorState) applyInner(tr *Transaction) (*EditorState, error) {
	if tr.before != s.doc {
		return nil, ErrMismatchedTransaction
	}

	next := &EditorState{
		doc:       tr.doc,
		selection: tr.selection,
		plugins:   s.plugins,
		fields:    make(map[*PluginKey]any, len(s.fields)),
		logger:    s.logger,
	}

	for _, p := range s.plugins {
		field := p.spec.State
		if field == nil {
			continue
		}
		value := s.fields[p.key]
		if field.Apply != nil {
			value = field.Apply(tr, value, s, next)
		}
		next.fields[p.key] = value
	}

	s.logger.Debug("applied transaction",
		zap.Stringer("tr", tr.id),
		zap.Int("steps", len(tr.steps)),
		zap.Stringer("selection", tr.selection),
	)
	return next, nil
}
