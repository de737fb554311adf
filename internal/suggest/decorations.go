package suggest

import (
	"fmt"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/renderer/decoration"
)

// Keys of the spec payload carried by ignored-region decorations.
const (
	specName     = "name"
	specSpecific = "specific"
	specChar     = "char"
)

// IgnoredParams locate an ignored region.
type IgnoredParams struct {
	// From is the position of the trigger.
	From int

	// Name is the suggester the region belongs to.
	Name string

	// Specific silences only the named suggester. Otherwise every
	// suggester with the same trigger is silenced.
	Specific bool
}

// AddIgnored ignores the trigger at p.From. The region covers the
// trigger characters and moves with later edits.
func (st *State) AddIgnored(p IgnoredParams) error {
	s := st.registry.find(p.Name)
	if s == nil {
		return fmt.Errorf("add ignored %q at %d: %w", p.Name, p.From, ErrSuggesterNotFound)
	}

	deco := decoration.Inline(p.From, p.From+len(s.Char),
		decoration.Attrs{NodeName: s.IgnoredTag, Class: s.IgnoredClassName},
		decoration.Spec{specName: s.Name, specSpecific: p.Specific, specChar: s.Char},
	)
	st.ignored = st.ignored.Add(deco)
	return nil
}

// RemoveIgnored removes the ignored region starting at p.From if it
// belongs to p.Name.
func (st *State) RemoveIgnored(p IgnoredParams) error {
	s := st.registry.find(p.Name)
	if s == nil {
		return fmt.Errorf("remove ignored %q at %d: %w", p.Name, p.From, ErrSuggesterNotFound)
	}

	to := p.From + len(s.Char)
	found := st.ignored.FindFunc(func(d decoration.Decoration) bool {
		return d.From == p.From && d.To == to
	})
	if len(found) == 0 || found[0].Spec.String(specName) != p.Name {
		return nil
	}
	st.ignored = st.ignored.Remove(found[0])
	return nil
}

// ClearIgnored removes every ignored region of name, or all regions when
// name is empty.
func (st *State) ClearIgnored(name string) {
	if name == "" {
		st.ignored = decoration.Empty
		return
	}
	st.ignored = st.ignored.Remove(st.ignored.FindFunc(func(d decoration.Decoration) bool {
		return d.Spec.String(specName) == name
	})...)
}

// shouldIgnoreMatch reports whether an ignored region starts at the
// match's trigger and applies to its suggester.
func (st *State) shouldIgnoreMatch(m Match) bool {
	return st.ignoredAt(m.Range.From, m.Suggester)
}

func (st *State) ignoredAt(from int, s *Suggester) bool {
	found := st.ignored.FindFunc(func(d decoration.Decoration) bool {
		if d.From != from {
			return false
		}
		if d.Spec.Bool(specSpecific) {
			return d.Spec.String(specName) == s.Name
		}
		return d.Spec.String(specChar) == s.Char
	})
	return len(found) > 0
}

// mapIgnored carries ignored regions through tr and drops those whose
// length no longer equals their trigger's.
func (st *State) mapIgnored(tr *engine.Transaction) {
	mapped := st.ignored.Map(tr.Mapping())
	stale := mapped.FindFunc(func(d decoration.Decoration) bool {
		return d.Len() != len(d.Spec.String(specChar))
	})
	st.ignored = mapped.Remove(stale...)
}

// CreateDecorations returns the ignored regions plus a decoration over
// the live match, unless the match is ignored or its suggester disables
// decorations.
func (st *State) CreateDecorations(s *engine.EditorState) *decoration.Set {
	match := st.Match()
	if !isValidMatch(match) {
		return st.ignored
	}

	sug := match.Suggester
	if sug.IgnoreDecorations || (sug.IgnoreDecorationsFunc != nil && sug.IgnoreDecorationsFunc(s, *match)) {
		return st.ignored
	}
	if st.shouldIgnoreMatch(*match) {
		return st.ignored
	}

	class := sug.SuggestionClassName + " " + DefaultSuggestionClassName + "-" + sug.Name
	return st.ignored.Add(decoration.Inline(match.Range.From, match.Range.End,
		decoration.Attrs{NodeName: sug.DecorationsTag, Class: class},
		decoration.Spec{specName: sug.Name},
	))
}
