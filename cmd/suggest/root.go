package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "suggest",
		Short: "Inspect and replay suggestion triggers",
		Long: `suggest validates suggester definition files and replays scripted
editing sessions through the suggestion plugin, printing every change and
exit callback it fires.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd(), newReplayCmd())
	return root
}
