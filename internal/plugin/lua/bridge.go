package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/suggest/internal/config"
	"github.com/dshills/suggest/internal/suggest"
)

// luaDefinition is a decoded suggest.register table.
type luaDefinition struct {
	def      config.Definition
	onChange *lua.LFunction
	onExit   *lua.LFunction
	keys     map[string]*lua.LFunction
}

type fieldSetter func(d *config.Definition, v lua.LValue) error

func stringField(get func(*config.Definition) *string) fieldSetter {
	return func(d *config.Definition, v lua.LValue) error {
		s, ok := v.(lua.LString)
		if !ok {
			return fmt.Errorf("expected string, got %s", v.Type())
		}
		*get(d) = string(s)
		return nil
	}
}

func intField(get func(*config.Definition) *int) fieldSetter {
	return func(d *config.Definition, v lua.LValue) error {
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("expected number, got %s", v.Type())
		}
		*get(d) = int(n)
		return nil
	}
}

func boolField(get func(*config.Definition) *bool) fieldSetter {
	return func(d *config.Definition, v lua.LValue) error {
		b, ok := v.(lua.LBool)
		if !ok {
			return fmt.Errorf("expected boolean, got %s", v.Type())
		}
		*get(d) = bool(b)
		return nil
	}
}

func stringListField(get func(*config.Definition) *[]string) fieldSetter {
	return func(d *config.Definition, v lua.LValue) error {
		t, ok := v.(*lua.LTable)
		if !ok {
			return fmt.Errorf("expected table, got %s", v.Type())
		}
		var out []string
		for i := 1; i <= t.Len(); i++ {
			s, ok := t.RawGetInt(i).(lua.LString)
			if !ok {
				return fmt.Errorf("item %d: expected string", i)
			}
			out = append(out, string(s))
		}
		*get(d) = out
		return nil
	}
}

// definitionFields maps snake_case names to Definition fields.
var definitionFields = map[string]fieldSetter{
	"name":                      stringField(func(d *config.Definition) *string { return &d.Name }),
	"char":                      stringField(func(d *config.Definition) *string { return &d.Char }),
	"start_of_line":             boolField(func(d *config.Definition) *bool { return &d.StartOfLine }),
	"supported_characters":      stringField(func(d *config.Definition) *string { return &d.SupportedCharacters }),
	"valid_prefix_characters":   stringField(func(d *config.Definition) *string { return &d.ValidPrefixCharacters }),
	"invalid_prefix_characters": stringField(func(d *config.Definition) *string { return &d.InvalidPrefixCharacters }),
	"match_offset":              intField(func(d *config.Definition) *int { return &d.MatchOffset }),
	"append_text":               stringField(func(d *config.Definition) *string { return &d.AppendText }),
	"priority":                  intField(func(d *config.Definition) *int { return &d.Priority }),
	"case_insensitive":          boolField(func(d *config.Definition) *bool { return &d.CaseInsensitive }),
	"multiline":                 boolField(func(d *config.Definition) *bool { return &d.Multiline }),
	"empty_selections_only":     boolField(func(d *config.Definition) *bool { return &d.EmptySelectionsOnly }),
	"valid_blocks":              stringListField(func(d *config.Definition) *[]string { return &d.ValidBlocks }),
	"invalid_blocks":            stringListField(func(d *config.Definition) *[]string { return &d.InvalidBlocks }),
	"append_transaction":        boolField(func(d *config.Definition) *bool { return &d.AppendTransaction }),
	"decorations_tag":           stringField(func(d *config.Definition) *string { return &d.DecorationsTag }),
	"suggestion_class_name":     stringField(func(d *config.Definition) *string { return &d.SuggestionClassName }),
	"ignored_tag":               stringField(func(d *config.Definition) *string { return &d.IgnoredTag }),
	"ignored_class_name":        stringField(func(d *config.Definition) *string { return &d.IgnoredClassName }),
	"ignore_decorations":        boolField(func(d *config.Definition) *bool { return &d.IgnoreDecorations }),
}

// decodeDefinition reads a suggest.register table. Unknown keys are errors.
func decodeDefinition(t *lua.LTable) (luaDefinition, error) {
	var out luaDefinition
	var err error

	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("%w: non-string key %s", ErrInvalidDefinition, k.String())
			return
		}

		switch name := string(key); name {
		case "on_change", "on_exit":
			fn, ok := v.(*lua.LFunction)
			if !ok {
				err = fmt.Errorf("%w: %s: expected function, got %s", ErrInvalidDefinition, name, v.Type())
				return
			}
			if name == "on_change" {
				out.onChange = fn
			} else {
				out.onExit = fn
			}
		case "keys":
			out.keys, err = decodeKeys(v)
		default:
			set, ok := definitionFields[name]
			if !ok {
				err = fmt.Errorf("%w: unknown field %s", ErrInvalidDefinition, name)
				return
			}
			if ferr := set(&out.def, v); ferr != nil {
				err = fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, name, ferr)
			}
		}
	})
	return out, err
}

func decodeKeys(v lua.LValue) (map[string]*lua.LFunction, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: keys: expected table, got %s", ErrInvalidDefinition, v.Type())
	}

	keys := make(map[string]*lua.LFunction)
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		name, ok := k.(lua.LString)
		fn, isFn := v.(*lua.LFunction)
		if !ok || !isFn {
			err = fmt.Errorf("%w: keys: expected name = function, got %s = %s", ErrInvalidDefinition, k.Type(), v.Type())
			return
		}
		keys[string(name)] = fn
	})
	return keys, err
}

// propsTable converts callback props into the table passed to Lua.
func propsTable(L *lua.LState, p suggest.Props, reason string) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(p.Name()))
	t.RawSetString("char", lua.LString(p.Suggester.Char))
	t.RawSetString("reason", lua.LString(reason))
	t.RawSetString("stage", lua.LString(p.Stage.String()))
	t.RawSetString("full", lua.LString(p.QueryText.Full))
	t.RawSetString("partial", lua.LString(p.QueryText.Partial))
	t.RawSetString("from", lua.LNumber(p.Range.From))
	t.RawSetString("to", lua.LNumber(p.Range.To))
	t.RawSetString("end", lua.LNumber(p.Range.End))

	t.RawSetString("ignore_next_exit", L.NewFunction(func(L *lua.LState) int {
		p.IgnoreNextExit()
		return 0
	}))
	t.RawSetString("add_ignored", L.NewFunction(func(L *lua.LState) int {
		if err := p.AddIgnored(L.OptBool(1, false)); err != nil {
			L.RaiseError("add_ignored: %s", err.Error())
		}
		return 0
	}))
	return t
}
