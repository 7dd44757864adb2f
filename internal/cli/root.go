/*
Package cli implements the csa command-line interface.

csa locates past Claude Code conversation transcripts by topic, time window,
or project, and prints the session identifier needed to resume them.
*/
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the command tree.
func NewRootCmd(version string) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "csa",
		Short: "Search and analyze Claude Code session transcripts",
		Long: `csa searches your local Claude Code conversation history and returns
stable session identifiers you can resume with "claude --resume <id>".

It also derives a structured goal/action/outcome summary for any single
session transcript.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewVersionCmd(version))

	return rootCmd
}
