package suggest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine/doc"
)

// pattern holds the compiled expressions of one suggester.
type pattern struct {
	re      *regexp.Regexp
	valid   *regexp.Regexp
	invalid *regexp.Regexp
}

// prefixValid reports whether prefix may precede the trigger.
func (p *pattern) prefixValid(prefix string) bool {
	if p.invalid != nil {
		return !p.invalid.MatchString(prefix)
	}
	return p.valid.MatchString(prefix)
}

// Expression returns the regular expression used to find the suggester's
// matches. The trigger is captured in the first group.
func Expression(s Suggester) string {
	s = s.withDefaults()

	var b strings.Builder
	flags := ""
	if s.Multiline {
		flags += "m"
	}
	if s.CaseInsensitive {
		flags += "i"
	}
	if flags != "" {
		b.WriteString("(?" + flags + ")")
	}
	if s.StartOfLine {
		b.WriteString("^")
	}
	b.WriteString("(" + regexp.QuoteMeta(s.Char) + ")")
	fmt.Fprintf(&b, "(?:%s){%d,}", s.SupportedCharacters, s.MatchOffset)
	return b.String()
}

// Compile compiles every pattern of a suggester and reports the first
// error. It is used to validate suggesters before registration.
func Compile(s Suggester) error {
	_, err := compilePattern(s.withDefaults())
	return err
}

func compilePattern(s Suggester) (*pattern, error) {
	re, err := regexp.Compile(Expression(s))
	if err != nil {
		return nil, fmt.Errorf("suggester %q pattern: %w", s.Name, err)
	}
	p := &pattern{re: re}

	if s.InvalidPrefixCharacters != "" {
		p.invalid, err = regexp.Compile(s.InvalidPrefixCharacters)
		if err != nil {
			return nil, fmt.Errorf("suggester %q invalid prefix: %w", s.Name, err)
		}
		return p, nil
	}

	p.valid, err = regexp.Compile(s.ValidPrefixCharacters)
	if err != nil {
		return nil, fmt.Errorf("suggester %q valid prefix: %w", s.Name, err)
	}
	return p, nil
}

// matcher finds suggester matches around a resolved position.
type matcher struct {
	patterns map[*Suggester]*pattern
	logger   *zap.Logger
}

func newMatcher(logger *zap.Logger) *matcher {
	return &matcher{
		patterns: make(map[*Suggester]*pattern),
		logger:   logger,
	}
}

// forget drops the cached pattern of a suggester.
func (m *matcher) forget(s *Suggester) {
	delete(m.patterns, s)
}

func (m *matcher) pattern(s *Suggester) (*pattern, error) {
	if p, ok := m.patterns[s]; ok {
		return p, nil
	}
	p, err := compilePattern(*s)
	if err != nil {
		return nil, err
	}
	m.patterns[s] = p
	return p, nil
}

// find scans the textblock around rp for occurrences of the suggester's
// pattern and returns the last one containing the cursor, or nil.
// Panics raised by the suggester's predicates are returned as errors.
func (m *matcher) find(rp doc.ResolvedPos, s *Suggester) (match *Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = nil
			err = fmt.Errorf("suggester %q panicked: %v", s.Name, r)
		}
	}()

	if !rp.InTextblock() || !blockAllowed(s, rp.Parent.Type) {
		return nil, nil
	}

	p, err := m.pattern(s)
	if err != nil {
		return nil, err
	}

	text := rp.Parent.Text
	cursor := rp.Pos

	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		start, stop, charEnd := loc[0], loc[1], loc[3]

		prefix := ""
		if start > 0 {
			_, size := utf8.DecodeLastRuneInString(text[:start])
			prefix = text[start-size : start]
		}
		if !p.prefixValid(prefix) {
			continue
		}

		from := rp.Start + start
		end := rp.Start + stop
		if from >= cursor || cursor > end {
			continue
		}
		to := min(end, cursor)
		cut := max(charEnd, to-rp.Start)

		candidate := Match{
			Suggester: s,
			Range:     Range{From: from, To: to, End: end},
			QueryText: Text{Full: text[charEnd:stop], Partial: text[charEnd:cut]},
			MatchText: Text{Full: text[start:stop], Partial: text[start : to-rp.Start]},
		}
		if s.IsValidPosition != nil && !s.IsValidPosition(rp, candidate) {
			continue
		}
		match = &candidate
	}
	return match, nil
}

// findFirst returns the first match in priority order that skip does not
// reject. A failing suggester is logged and skipped.
func (m *matcher) findFirst(rp doc.ResolvedPos, suggesters []*Suggester, selectionEmpty bool, skip func(Match) bool) *Match {
	for _, s := range suggesters {
		if s.EmptySelectionsOnly && !selectionEmpty {
			continue
		}

		match, err := m.find(rp, s)
		if err != nil {
			m.logger.Warn("suggester match failed",
				zap.String("suggester", s.Name),
				zap.Int("pos", rp.Pos),
				zap.Error(err),
			)
			continue
		}
		if match == nil || skip(*match) {
			continue
		}
		return match
	}
	return nil
}

// recheck runs a match's suggester again at the match's cursor-bounded end
// in d. Stale positions yield nil.
func (m *matcher) recheck(d *doc.Doc, prev Match) *Match {
	rp, err := d.Resolve(prev.Range.To)
	if err != nil {
		return nil
	}
	match, err := m.find(rp, prev.Suggester)
	if err != nil {
		return nil
	}
	return match
}

func blockAllowed(s *Suggester, blockType string) bool {
	if len(s.ValidBlocks) > 0 && !lo.Contains(s.ValidBlocks, blockType) {
		return false
	}
	return !lo.Contains(s.InvalidBlocks, blockType)
}

// isValidMatch reports whether a match exists and its query is long
// enough for its suggester.
func isValidMatch(m *Match) bool {
	if m == nil || m.Suggester == nil {
		return false
	}
	return uniseg.GraphemeClusterCount(m.QueryText.Full) >= m.Suggester.MatchOffset
}
