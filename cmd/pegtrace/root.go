package main

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	var logger logr.Logger

	cmd := &cobra.Command{
		Use:   "pegtrace",
		Short: "Evaluate and inspect expressions against the arithmetic sample grammar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				stdr.SetVerbosity(1)
			}
			logger = stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("pegtrace")
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newParseCmd(&logger))
	cmd.AddCommand(newTreeCmd(&logger))
	cmd.AddCommand(newTokensCmd(&logger))
	cmd.AddCommand(newWatchCmd(&logger))

	return cmd
}
