// Package mention implements mention completion on top of the suggest
// plugin.
//
// An Extension owns one suggester. While its trigger is active it filters
// a local candidate list by the typed query and keeps a selection that key
// bindings move and insert:
//
//	ext := mention.New("@", "mention", []mention.Candidate{
//	    {Label: "john"},
//	    {Label: "joanna"},
//	}, mention.WithLimit(5))
//
//	plugin, err := suggest.Suggest(ext.Suggester())
//
// Down and Up cycle the selection, Enter and Tab insert it, Esc dismisses
// the mention and leaves the typed text alone.
package mention

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/suggest"
)

// DefaultLimit caps the number of results.
const DefaultLimit = 8

// ErrNoCandidate is returned by the insert command without a candidate.
var ErrNoCandidate = errors.New("no candidate to insert")

// Candidate is one insertable mention.
type Candidate struct {
	// Label is inserted after the trigger and matched against the query.
	Label string
	// Detail is shown next to the label.
	Detail string
}

// Option configures an Extension.
type Option func(*Extension)

// WithLimit caps the number of results. Zero or less means no cap.
func WithLimit(n int) Option {
	return func(e *Extension) {
		e.limit = n
	}
}

// WithAppendText sets the text inserted after a mention. Defaults to " ".
func WithAppendText(s string) Option {
	return func(e *Extension) {
		e.appendText = s
	}
}

// WithPriority sets the suggester priority.
func WithPriority(p int) Option {
	return func(e *Extension) {
		e.priority = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extension) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Extension filters candidates for an active mention and inserts them.
type Extension struct {
	char       string
	name       string
	candidates []Candidate
	labels     []string

	limit      int
	appendText string
	priority   int
	logger     *zap.Logger

	active   bool
	query    string
	results  []Candidate
	selected int
}

// New creates a mention extension for trigger char.
func New(char, name string, candidates []Candidate, opts ...Option) *Extension {
	e := &Extension{
		char:       char,
		name:       name,
		candidates: candidates,
		limit:      DefaultLimit,
		appendText: " ",
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.labels = make([]string, len(candidates))
	for i, c := range candidates {
		e.labels[i] = c.Label
	}
	return e
}

// Suggester returns the suggester to register with the suggest plugin.
func (e *Extension) Suggester() suggest.Suggester {
	return suggest.Suggester{
		Name:          e.name,
		Char:          e.char,
		AppendText:    e.appendText,
		Priority:      e.priority,
		OnChange:      e.onChange,
		OnExit:        e.onExit,
		CreateCommand: e.command,
		KeyBindings: suggest.KeyBindings{
			"Down":  e.next,
			"Up":    e.prev,
			"Enter": e.insert,
			"Tab":   e.insert,
			"Esc":   e.dismiss,
		},
	}
}

// Active returns true while a mention is being typed.
func (e *Extension) Active() bool {
	return e.active
}

// Query returns the text typed after the trigger.
func (e *Extension) Query() string {
	return e.query
}

// Results returns the filtered candidates, best first.
func (e *Extension) Results() []Candidate {
	return e.results
}

// Selected returns the selected result.
func (e *Extension) Selected() (Candidate, bool) {
	if !e.active || len(e.results) == 0 {
		return Candidate{}, false
	}
	return e.results[e.selected], true
}

func (e *Extension) onChange(p suggest.ChangeProps, _ *engine.Transaction) {
	if !e.active || p.QueryText.Full != e.query || p.Reason == suggest.ChangeReasonStart {
		e.selected = 0
	}
	e.active = true
	e.query = p.QueryText.Full
	e.results = e.filter(e.query)
	if e.selected >= len(e.results) {
		e.selected = 0
	}

	e.logger.Debug("mention results",
		zap.String("query", e.query),
		zap.Stringer("reason", p.Reason),
		zap.Int("results", len(e.results)),
	)
}

func (e *Extension) onExit(suggest.ExitProps, *engine.Transaction) {
	e.close()
}

func (e *Extension) close() {
	e.active = false
	e.query = ""
	e.results = nil
	e.selected = 0
}

// filter matches the query against candidate labels. An empty query keeps
// every candidate in order.
func (e *Extension) filter(query string) []Candidate {
	var out []Candidate
	if query == "" {
		out = append(out, e.candidates...)
	} else {
		for _, m := range fuzzy.Find(query, e.labels) {
			out = append(out, e.candidates[m.Index])
		}
	}
	if e.limit > 0 && len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

func (e *Extension) next(suggest.KeyProps) bool {
	if len(e.results) == 0 {
		return false
	}
	e.selected = (e.selected + 1) % len(e.results)
	return true
}

func (e *Extension) prev(suggest.KeyProps) bool {
	if len(e.results) == 0 {
		return false
	}
	e.selected = (e.selected - 1 + len(e.results)) % len(e.results)
	return true
}

func (e *Extension) insert(p suggest.KeyProps) bool {
	c, ok := e.Selected()
	if !ok || p.Command == nil {
		return false
	}
	if err := p.Command(c); err != nil {
		e.logger.Warn("mention insert failed", zap.String("label", c.Label), zap.Error(err))
	}
	return true
}

func (e *Extension) dismiss(p suggest.KeyProps) bool {
	if err := p.AddIgnored(true); err != nil {
		e.logger.Warn("mention dismiss failed", zap.Error(err))
	}
	e.close()
	return true
}

// command builds the insert command. It accepts a Candidate or a label.
func (e *Extension) command(p suggest.Props) suggest.CommandFunc {
	return func(args ...any) error {
		if len(args) == 0 {
			return ErrNoCandidate
		}

		var label string
		switch v := args[0].(type) {
		case Candidate:
			label = v.Label
		case string:
			label = v
		default:
			return fmt.Errorf("%w: unsupported argument %T", ErrNoCandidate, args[0])
		}
		if p.View == nil {
			return fmt.Errorf("insert mention %q: %w", label, engine.ErrViewDestroyed)
		}

		tr := p.View.State().Tr()
		if err := tr.Replace(p.Range.From, p.Range.End, p.Suggester.Char+label+p.Suggester.AppendText); err != nil {
			return fmt.Errorf("insert mention %q: %w", label, err)
		}
		p.IgnoreNextExit()
		if err := p.View.Dispatch(tr); err != nil {
			return fmt.Errorf("insert mention %q: %w", label, err)
		}

		e.close()
		return p.State().AddIgnored(suggest.IgnoredParams{
			From:     p.Range.From,
			Name:     p.Name(),
			Specific: true,
		})
	}
}
