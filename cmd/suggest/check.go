package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/suggest/internal/config"
	"github.com/dshills/suggest/internal/plugin/lua"
)

// errCheckFailed is returned when at least one file is invalid.
var errCheckFailed = errors.New("check failed")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate suggester definition files",
		Long: `check loads every FILE and reports whether its suggesters are valid.
TOML (.toml), YAML (.yaml, .yml) and Lua (.lua) files are accepted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.OutOrStdout(), args)
		},
	}
}

// check validates each file and prints one line per file.
func check(w io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		names, err := checkFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s\n", path)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
			continue
		}
		fmt.Fprintf(w, "ok   %s (%s)\n", path, strings.Join(names, ", "))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", errCheckFailed, failed, len(paths))
	}
	return nil
}

func checkFile(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".lua") {
		host, err := lua.NewHost()
		if err != nil {
			return nil, err
		}
		defer host.Close()

		if err := host.DoFile(path); err != nil {
			return nil, err
		}
		var names []string
		for _, s := range host.Suggesters() {
			names = append(names, s.Name)
		}
		return names, nil
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return file.Names(), nil
}
