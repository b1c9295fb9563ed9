package main

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ava12/peg/examples/arithmetic"
)

func newParseCmd(logger *logr.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression>",
		Short: "Evaluate an arithmetic expression and print its numeric result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := arithmetic.New()
			result, err := arithmetic.Eval(g, args[0])
			if err != nil {
				return cerrors.Wrapf(err, "evaluate %q", args[0])
			}

			logger.V(1).Info("evaluated", "expression", args[0], "result", result)
			fmt.Println(result)
			return nil
		},
	}
}
