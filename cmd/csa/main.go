// Package main is the entry point for the csa CLI.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Results go to stdout; logs stay on stderr.
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	rootCmd := cli.NewRootCmd(Version)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
