package config

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/samber/lo"

	"github.com/dshills/suggest/internal/suggest"
)

// File is the decoded content of a definition file.
type File struct {
	// Path is where the file was loaded from, or "<reader>".
	Path string `toml:"-" yaml:"-"`

	// Definitions in file order.
	Definitions []Definition `toml:"suggesters" yaml:"suggesters"`
}

// Definition is the declarative form of a suggester.
type Definition struct {
	Name                    string   `toml:"name" yaml:"name"`
	Char                    string   `toml:"char" yaml:"char"`
	StartOfLine             bool     `toml:"start_of_line" yaml:"start_of_line"`
	SupportedCharacters     string   `toml:"supported_characters" yaml:"supported_characters"`
	ValidPrefixCharacters   string   `toml:"valid_prefix_characters" yaml:"valid_prefix_characters"`
	InvalidPrefixCharacters string   `toml:"invalid_prefix_characters" yaml:"invalid_prefix_characters"`
	MatchOffset             int      `toml:"match_offset" yaml:"match_offset"`
	AppendText              string   `toml:"append_text" yaml:"append_text"`
	Priority                int      `toml:"priority" yaml:"priority"`
	CaseInsensitive         bool     `toml:"case_insensitive" yaml:"case_insensitive"`
	Multiline               bool     `toml:"multiline" yaml:"multiline"`
	EmptySelectionsOnly     bool     `toml:"empty_selections_only" yaml:"empty_selections_only"`
	ValidBlocks             []string `toml:"valid_blocks" yaml:"valid_blocks"`
	InvalidBlocks           []string `toml:"invalid_blocks" yaml:"invalid_blocks"`
	AppendTransaction       bool     `toml:"append_transaction" yaml:"append_transaction"`
	DecorationsTag          string   `toml:"decorations_tag" yaml:"decorations_tag"`
	SuggestionClassName     string   `toml:"suggestion_class_name" yaml:"suggestion_class_name"`
	IgnoredTag              string   `toml:"ignored_tag" yaml:"ignored_tag"`
	IgnoredClassName        string   `toml:"ignored_class_name" yaml:"ignored_class_name"`
	IgnoreDecorations       bool     `toml:"ignore_decorations" yaml:"ignore_decorations"`
}

// Suggester converts the definition. Handlers are left nil.
func (d Definition) Suggester() suggest.Suggester {
	return suggest.Suggester{
		Name:                    d.Name,
		Char:                    d.Char,
		StartOfLine:             d.StartOfLine,
		SupportedCharacters:     d.SupportedCharacters,
		ValidPrefixCharacters:   d.ValidPrefixCharacters,
		InvalidPrefixCharacters: d.InvalidPrefixCharacters,
		MatchOffset:             d.MatchOffset,
		AppendText:              d.AppendText,
		Priority:                d.Priority,
		CaseInsensitive:         d.CaseInsensitive,
		Multiline:               d.Multiline,
		EmptySelectionsOnly:     d.EmptySelectionsOnly,
		ValidBlocks:             d.ValidBlocks,
		InvalidBlocks:           d.InvalidBlocks,
		AppendTransaction:       d.AppendTransaction,
		DecorationsTag:          d.DecorationsTag,
		SuggestionClassName:     d.SuggestionClassName,
		IgnoredTag:              d.IgnoredTag,
		IgnoredClassName:        d.IgnoredClassName,
		IgnoreDecorations:       d.IgnoreDecorations,
	}
}

// Validate checks a single definition. index is reported in errors.
func (d Definition) Validate(index int) []error {
	var errs []error
	fail := func(field, msg string, code ValidationErrorCode, err error) {
		errs = append(errs, &ValidationError{
			Index:   index,
			Name:    d.Name,
			Field:   field,
			Message: msg,
			Code:    code,
			Err:     err,
		})
	}

	if d.Name == "" {
		fail("name", "required", ErrCodeRequiredMissing, suggest.ErrInvalidSuggester)
	}
	if d.Char == "" {
		fail("char", "required", ErrCodeRequiredMissing, suggest.ErrInvalidSuggester)
	}
	if d.MatchOffset < 0 {
		fail("match_offset", "must not be negative", ErrCodeOutOfRange, nil)
	}

	prefixOK := true
	for _, p := range []struct{ field, expr string }{
		{"valid_prefix_characters", d.ValidPrefixCharacters},
		{"invalid_prefix_characters", d.InvalidPrefixCharacters},
	} {
		if p.expr == "" {
			continue
		}
		if _, err := regexp.Compile(p.expr); err != nil {
			prefixOK = false
			fail(p.field, err.Error(), ErrCodePatternInvalid, err)
		}
	}

	// With valid prefixes the only remaining expression is the match
	// pattern built from char and supported_characters.
	if prefixOK && d.Char != "" {
		if err := suggest.Compile(d.Suggester()); err != nil {
			fail("supported_characters", err.Error(), ErrCodePatternInvalid, err)
		}
	}
	return errs
}

// Validate checks every definition and rejects duplicate names. The
// returned error joins one *ValidationError per problem.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]int, len(f.Definitions))

	for i, d := range f.Definitions {
		errs = append(errs, d.Validate(i)...)
		if d.Name == "" {
			continue
		}
		if first, ok := seen[d.Name]; ok {
			errs = append(errs, &ValidationError{
				Index:   i,
				Name:    d.Name,
				Field:   "name",
				Message: "already defined by suggesters[" + strconv.Itoa(first) + "]",
				Code:    ErrCodeDuplicate,
				Err:     suggest.ErrDuplicateSuggester,
			})
			continue
		}
		seen[d.Name] = i
	}
	return errors.Join(errs...)
}

// Suggesters converts every definition in file order.
func (f *File) Suggesters() []suggest.Suggester {
	return lo.Map(f.Definitions, func(d Definition, _ int) suggest.Suggester {
		return d.Suggester()
	})
}

// Names returns the definition names in file order.
func (f *File) Names() []string {
	return lo.Map(f.Definitions, func(d Definition, _ int) string { return d.Name })
}
