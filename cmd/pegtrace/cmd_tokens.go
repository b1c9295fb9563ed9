package main

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ava12/peg/examples/arithmetic"
	"github.com/ava12/peg/tree"
)

func newTokensCmd(logger *logr.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression>",
		Short: "List every tagged node of an arithmetic expression's parse tree, in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := arithmetic.New()
			m, err := arithmetic.Parse(g, args[0])
			if err != nil {
				return cerrors.Wrapf(err, "parse %q", args[0])
			}

			root := tree.FromParserMatch(m, true)
			tagged := tree.Find(root, func(n *tree.Node) bool { return n.Tag() != "" })
			logger.V(1).Info("collected tagged leaves", "expression", args[0], "count", len(tagged))

			for _, n := range tagged {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%q\n", n.Tag(), n.Value())
			}
			return nil
		},
	}
}
