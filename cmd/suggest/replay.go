package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dshills/suggest/internal/config"
	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/engine/doc"
	"github.com/dshills/suggest/internal/logging"
	"github.com/dshills/suggest/internal/plugin/lua"
	"github.com/dshills/suggest/internal/suggest"
)

// errInvalidScript is returned for malformed replay scripts.
var errInvalidScript = errors.New("invalid replay script")

type replayOptions struct {
	configPath string
	luaPath    string
	scriptPath string
	logLevel   string
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay an editing script through the suggestion plugin",
		Long: `replay builds the suggestion plugin from definition files, runs the
steps of a YAML script against an editor and prints one line per change or
exit callback.

Script format:

  doc:
    - "first paragraph"
  steps:
    - cursor: 1
    - type: "@jo"
    - key: Enter
    - backspace: 2
    - select: [1, 4]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(opts.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return replay(cmd.OutOrStdout(), opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "suggester definitions (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.luaPath, "lua", "", "Lua script registering suggesters")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "YAML editing script")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

// script is a replayable editing session.
type script struct {
	Doc   []string `yaml:"doc"`
	Steps []step   `yaml:"steps"`
}

// step is one editing action. Exactly one field is set.
type step struct {
	Type      *string `yaml:"type"`
	Backspace int     `yaml:"backspace"`
	Cursor    *int    `yaml:"cursor"`
	Select    []int   `yaml:"select"`
	Key       string  `yaml:"key"`
}

func (s step) validate(i int) error {
	set := 0
	if s.Type != nil {
		set++
	}
	if s.Backspace != 0 {
		set++
	}
	if s.Cursor != nil {
		set++
	}
	if s.Select != nil {
		set++
		if len(s.Select) != 2 {
			return fmt.Errorf("%w: step %d: select needs [anchor, head]", errInvalidScript, i+1)
		}
	}
	if s.Key != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: step %d: want exactly one of type, backspace, cursor, select, key", errInvalidScript, i+1)
	}
	if s.Backspace < 0 {
		return fmt.Errorf("%w: step %d: negative backspace", errInvalidScript, i+1)
	}
	return nil
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}

	var sc script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", errInvalidScript, path, err)
	}
	for i, s := range sc.Steps {
		if err := s.validate(i); err != nil {
			return nil, err
		}
	}
	return &sc, nil
}

// replay runs the script and writes the callback trace to w.
func replay(w io.Writer, opts replayOptions, logger *zap.Logger) error {
	sc, err := loadScript(opts.scriptPath)
	if err != nil {
		return err
	}

	var suggesters []suggest.Suggester
	if opts.configPath != "" {
		file, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		suggesters = append(suggesters, file.Suggesters()...)
	}
	if opts.luaPath != "" {
		host, err := lua.NewHost(lua.WithLogger(logger))
		if err != nil {
			return err
		}
		defer host.Close()

		if err := host.DoFile(opts.luaPath); err != nil {
			return fmt.Errorf("lua %s: %w", opts.luaPath, err)
		}
		suggesters = append(suggesters, host.Suggesters()...)
	}
	if len(suggesters) == 0 {
		return fmt.Errorf("%w: no suggesters, pass --config or --lua", errInvalidScript)
	}

	t := &tracer{w: w}
	for i := range suggesters {
		suggesters[i] = t.wrap(suggesters[i])
	}

	plugin, err := suggest.Suggest(suggesters...)
	if err != nil {
		return err
	}

	blocks := make([]doc.Block, len(sc.Doc))
	for i, text := range sc.Doc {
		blocks[i] = doc.Paragraph(text)
	}
	state, err := engine.Create(engine.Config{
		Doc:     doc.New(blocks...),
		Plugins: []*engine.Plugin{plugin},
	}, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	view := engine.NewView(state)
	defer view.Destroy()

	for i, s := range sc.Steps {
		if err := runStep(view, s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func runStep(v *engine.View, s step) error {
	switch {
	case s.Type != nil:
		return v.TypeText(*s.Type)
	case s.Backspace > 0:
		for i := 0; i < s.Backspace; i++ {
			if err := v.Backspace(); err != nil {
				return err
			}
		}
		return nil
	case s.Cursor != nil:
		return v.SetCursor(*s.Cursor)
	case s.Select != nil:
		return v.Select(s.Select[0], s.Select[1])
	default:
		ev, err := parseKey(s.Key)
		if err != nil {
			return err
		}
		v.KeyDown(ev)
		return nil
	}
}

// parseKey reverses suggest.KeyName.
func parseKey(name string) (*tcell.EventKey, error) {
	mod := tcell.ModNone
	for _, prefix := range []struct {
		text string
		mod  tcell.ModMask
	}{
		{"Shift-", tcell.ModShift},
		{"Alt-", tcell.ModAlt},
	} {
		if rest, ok := strings.CutPrefix(name, prefix.text); ok {
			mod |= prefix.mod
			name = rest
		}
	}

	if r := []rune(name); len(r) == 1 {
		return tcell.NewEventKey(tcell.KeyRune, r[0], mod), nil
	}
	if k, ok := keyByName(name); ok {
		return tcell.NewEventKey(k, 0, mod), nil
	}
	if rest, ok := strings.CutPrefix(name, "Ctrl-"); ok {
		if k, ok := keyByName(rest); ok {
			return tcell.NewEventKey(k, 0, mod|tcell.ModCtrl), nil
		}
	}
	return nil, fmt.Errorf("%w: unknown key %q", errInvalidScript, name)
}

// keysByName inverts tcell.KeyNames. Aliased names resolve to the lowest
// key value.
var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, n := range tcell.KeyNames {
		if prev, ok := m[n]; !ok || k < prev {
			m[n] = k
		}
	}
	return m
}()

func keyByName(name string) (tcell.Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// tracer prints callbacks.
type tracer struct {
	w io.Writer
}

func (t *tracer) wrap(s suggest.Suggester) suggest.Suggester {
	onChange, onExit := s.OnChange, s.OnExit

	s.OnChange = func(p suggest.ChangeProps, tr *engine.Transaction) {
		t.print("change", p.Props, p.Reason.String())
		if onChange != nil {
			onChange(p, tr)
		}
	}
	s.OnExit = func(p suggest.ExitProps, tr *engine.Transaction) {
		t.print("exit", p.Props, p.Reason.String())
		if onExit != nil {
			onExit(p, tr)
		}
	}
	return s
}

func (t *tracer) print(kind string, p suggest.Props, reason string) {
	fmt.Fprintf(t.w, "%-6s %-10s %-16s %-5s %q [%d,%d,%d]\n",
		kind, p.Name(), reason, p.Stage, p.QueryText.Full,
		p.Range.From, p.Range.To, p.Range.End)
}
