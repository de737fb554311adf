// Package config loads declarative suggester definitions.
//
// Definitions describe the data half of a suggest.Suggester: the trigger,
// the query pattern, prefix rules, priority and rendering hints. Callbacks
// are attached in code (see the mention and lua packages); a definition
// loaded from disk produces a suggester that matches and decorates but has
// no handlers until one is attached.
//
// # File Formats
//
// The format is chosen by file extension. TOML files use ".toml", YAML
// files use ".yaml" or ".yml". Both share one schema with a top-level
// "suggesters" array:
//
//	[[suggesters]]
//	name = "mention"
//	char = "@"
//	append_text = " "
//	priority = 80
//
//	[[suggesters]]
//	name = "emoji"
//	char = ":"
//	supported_characters = "[a-z0-9_+-]+"
//	match_offset = 1
//
// The same file in YAML:
//
//	suggesters:
//	  - name: mention
//	    char: "@"
//	    append_text: " "
//	    priority: 80
//	  - name: emoji
//	    char: ":"
//	    supported_characters: "[a-z0-9_+-]+"
//	    match_offset: 1
//
// # Validation
//
// Load validates every definition after decoding. Names and triggers are
// required, names must be unique and every regular expression must
// compile. Validation failures are reported as *ValidationError values
// joined into one error that also matches ErrValidationFailed.
//
// # Usage
//
//	file, err := config.NewLoader().Load("suggesters.toml")
//	if err != nil {
//	    return err
//	}
//	plugin, err := suggest.Suggest(file.Suggesters()...)
package config
