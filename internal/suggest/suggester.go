package suggest

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/engine/doc"
)

// Default suggester settings.
const (
	// DefaultSupportedCharacters matches word characters.
	DefaultSupportedCharacters = `[\w\d_]+`

	// DefaultValidPrefixCharacters allows whitespace, a null character, or
	// nothing at all before the trigger.
	DefaultValidPrefixCharacters = `^[\s\x00]?$`

	// DefaultPriority is used when Priority is zero.
	DefaultPriority = 50

	// DefaultDecorationsTag wraps active matches.
	DefaultDecorationsTag = "span"

	// DefaultIgnoredTag wraps ignored trigger characters.
	DefaultIgnoredTag = "span"

	// DefaultSuggestionClassName is the class of active match decorations.
	DefaultSuggestionClassName = "suggest"
)

// Suggester configures one trigger pattern and its callbacks.
//
// Only Name and Char are required. Zero values of the remaining fields are
// replaced by defaults at registration.
type Suggester struct {
	// Name uniquely identifies the suggester.
	Name string

	// Char is the trigger, e.g. "@". Matched literally.
	Char string

	// StartOfLine only matches triggers at the start of the textblock
	// (or of a line when Multiline is set).
	StartOfLine bool

	// SupportedCharacters is a regular expression for the query characters.
	SupportedCharacters string

	// ValidPrefixCharacters is a regular expression that the character
	// before the trigger must match. It receives "" at the start of a block.
	ValidPrefixCharacters string

	// InvalidPrefixCharacters, when set, replaces ValidPrefixCharacters: the
	// character before the trigger must not match it.
	InvalidPrefixCharacters string

	// MatchOffset is the minimum query length, in grapheme clusters,
	// before a match is considered live.
	MatchOffset int

	// AppendText is appended by commands that complete the match.
	AppendText string

	// Priority orders suggesters that match the same position. Higher wins;
	// equal priorities keep registration order. Zero means DefaultPriority.
	Priority int

	// CaseInsensitive makes the trigger and query match regardless of case.
	CaseInsensitive bool

	// Multiline lets StartOfLine anchor at embedded line breaks.
	Multiline bool

	// EmptySelectionsOnly disables the suggester while text is selected.
	EmptySelectionsOnly bool

	// ValidBlocks restricts matching to these block types when non-empty.
	ValidBlocks []string

	// InvalidBlocks disables matching inside these block types.
	InvalidBlocks []string

	// IsValidPosition can veto a candidate match.
	IsValidPosition func(pos doc.ResolvedPos, m Match) bool

	// AppendTransaction runs the callbacks from the plugin's
	// AppendTransaction hook so that steps added to the transaction are
	// applied with the edit that caused them.
	AppendTransaction bool

	// DecorationsTag is the node name of active match decorations.
	DecorationsTag string

	// SuggestionClassName is the class of active match decorations.
	SuggestionClassName string

	// IgnoredTag is the node name of ignored-region decorations.
	IgnoredTag string

	// IgnoredClassName is the class of ignored-region decorations.
	IgnoredClassName string

	// IgnoreDecorations disables the active match decoration.
	IgnoreDecorations bool

	// IgnoreDecorationsFunc disables the active match decoration per state.
	IgnoreDecorationsFunc func(s *engine.EditorState, m Match) bool

	// OnChange is called when the match is created or changes.
	OnChange func(p ChangeProps, tr *engine.Transaction)

	// OnExit is called when the match is left.
	OnExit func(p ExitProps, tr *engine.Transaction)

	// OnCharacterEntry is offered text typed while the match is active.
	// Returning true swallows the input.
	OnCharacterEntry func(p CharacterProps) bool

	// KeyBindings handle raw key events while the match is active.
	KeyBindings KeyBindings

	// GetStage reports the stage of a match. Defaults to StageNew for
	// Start and jump changes and StageEdit otherwise.
	GetStage func(m Match, reason ChangeReason, s *engine.EditorState) Stage

	// CreateCommand builds the command exposed on callback props.
	CreateCommand func(p Props) CommandFunc
}

// withDefaults returns a copy with every unset field filled in.
func (s Suggester) withDefaults() Suggester {
	if s.SupportedCharacters == "" {
		s.SupportedCharacters = DefaultSupportedCharacters
	}
	if s.ValidPrefixCharacters == "" {
		s.ValidPrefixCharacters = DefaultValidPrefixCharacters
	}
	if s.Priority == 0 {
		s.Priority = DefaultPriority
	}
	if s.MatchOffset < 0 {
		s.MatchOffset = 0
	}
	if s.DecorationsTag == "" {
		s.DecorationsTag = DefaultDecorationsTag
	}
	if s.SuggestionClassName == "" {
		s.SuggestionClassName = DefaultSuggestionClassName
	}
	if s.IgnoredTag == "" {
		s.IgnoredTag = DefaultIgnoredTag
	}
	if s.GetStage == nil {
		s.GetStage = defaultStage
	}
	return s
}

func (s Suggester) validate() error {
	if s.Name == "" {
		return fmt.Errorf("suggester without name: %w", ErrInvalidSuggester)
	}
	if s.Char == "" {
		return fmt.Errorf("suggester %q without trigger: %w", s.Name, ErrInvalidSuggester)
	}
	return nil
}

func defaultStage(_ Match, reason ChangeReason, _ *engine.EditorState) Stage {
	if reason == ChangeReasonStart || reason.IsJump() {
		return StageNew
	}
	return StageEdit
}

// Range locates a match. From is the trigger start, To is bounded by the
// cursor and End is the end of the whole match: From <= To <= End.
type Range struct {
	From int
	To   int
	End  int
}

// Text is matched text split at the cursor.
type Text struct {
	Full    string // The whole match
	Partial string // The match up to the cursor
}

// Match is an occurrence of a suggester's pattern around the cursor.
type Match struct {
	Suggester *Suggester
	Range     Range

	// QueryText excludes the trigger, MatchText includes it.
	QueryText Text
	MatchText Text
}

// Name returns the suggester's name, or "" for a zero match.
func (m Match) Name() string {
	if m.Suggester == nil {
		return ""
	}
	return m.Suggester.Name
}

// String returns a debugging representation of the match.
func (m Match) String() string {
	return fmt.Sprintf("%s[%d,%d,%d] %q", m.Name(), m.Range.From, m.Range.To, m.Range.End, m.MatchText.Full)
}

// CommandFunc is a command created by a suggester's CreateCommand.
type CommandFunc func(args ...any) error

// KeyHandler handles a key event for the active match.
// Returning true swallows the event.
type KeyHandler func(p KeyProps) bool

// KeyBindings maps key names to handlers. Names are tcell key names such as
// "Enter", "Up" or "Esc", single characters for printable keys, and may be
// prefixed with "Shift-", "Alt-" or "Ctrl-".
type KeyBindings map[string]KeyHandler

// Props are passed to every suggester callback.
type Props struct {
	Match

	// View is the editor view the plugin is attached to.
	View *engine.View

	// Stage of the match.
	Stage Stage

	// Command is created by the suggester's CreateCommand, or nil.
	Command CommandFunc

	state *State
}

// State returns the suggestion state that produced the props.
func (p Props) State() *State {
	return p.state
}

// AddIgnored ignores the match's trigger from now on. When specific is
// true only this suggester is silenced, otherwise every suggester sharing
// the trigger is.
func (p Props) AddIgnored(specific bool) error {
	return p.state.AddIgnored(IgnoredParams{
		From:     p.Range.From,
		Name:     p.Name(),
		Specific: specific,
	})
}

// ClearIgnored removes the ignored regions of name, or all of them when
// name is empty.
func (p Props) ClearIgnored(name string) {
	p.state.ClearIgnored(name)
}

// IgnoreNextExit skips the next exit callback.
func (p Props) IgnoreNextExit() {
	p.state.IgnoreNextExit()
}

// SetMarkRemoved forces the next transaction to be processed.
func (p Props) SetMarkRemoved() {
	p.state.SetMarkRemoved()
}

// ChangeProps are passed to OnChange.
type ChangeProps struct {
	Props
	Reason ChangeReason
}

// ExitProps are passed to OnExit.
type ExitProps struct {
	Props
	Reason ExitReason
}

// CharacterProps are passed to OnCharacterEntry.
type CharacterProps struct {
	Props

	// From and To bound the range the text replaces.
	From int
	To   int
	Text string
}

// KeyProps are passed to key binding handlers.
type KeyProps struct {
	Props
	Event *tcell.EventKey
}
